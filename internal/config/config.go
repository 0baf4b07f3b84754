package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CHAT_CONFIG"

// defaultConfigPaths are searched in order; the first existing file wins.
var defaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config is the full runtime configuration. Values merge in three layers:
// struct defaults, then an optional yaml file, then CHAT_* environment
// variables (double underscore as section separator, e.g.
// CHAT_BACKEND__BASE_URL).
type Config struct {
	ListenAddr string `koanf:"listen_addr"`
	LogLevel   string `koanf:"log_level"`

	Self      SelfConfig      `koanf:"self"`
	Backend   BackendConfig   `koanf:"backend"`
	Transport TransportConfig `koanf:"transport"`
	Typing    TypingConfig    `koanf:"typing"`
	Redis     RedisConfig     `koanf:"redis"`
	Notify    NotifyConfig    `koanf:"notify"`
}

// SelfConfig identifies the user this session runs for. Authentication is
// established elsewhere; the chat core trusts these values.
type SelfConfig struct {
	ID        int64  `koanf:"id"`
	Email     string `koanf:"email"`
	Role      string `koanf:"role"`
	CompanyID int64  `koanf:"company_id"`
}

// BackendConfig locates the external message store's REST API.
type BackendConfig struct {
	BaseURL  string        `koanf:"base_url"`
	Timeout  time.Duration `koanf:"timeout"`
	PageSize int           `koanf:"page_size"`
}

// TransportConfig locates the realtime websocket endpoint.
type TransportConfig struct {
	URL        string        `koanf:"url"`
	BackoffCap time.Duration `koanf:"backoff_cap"`
}

// TypingConfig tunes the typing debouncer.
type TypingConfig struct {
	QuietPeriod time.Duration `koanf:"quiet_period"`
}

// RedisConfig is optional; when URL is empty the in-process cache and queue
// adapters are used instead.
type RedisConfig struct {
	URL string `koanf:"url"`
}

// NotifyConfig configures the inbound-message sound cue. An empty command
// disables playback.
type NotifyConfig struct {
	Command string `koanf:"command"`
	Sound   string `koanf:"sound"`
}

func defaultConfig() *Config {
	return &Config{
		ListenAddr: ":8081",
		LogLevel:   "info",
		Backend: BackendConfig{
			BaseURL:  "https://hauzserver.onrender.com/api",
			Timeout:  10 * time.Second,
			PageSize: 50,
		},
		Transport: TransportConfig{
			URL:        "wss://hauzserver.onrender.com/ws",
			BackoffCap: 30 * time.Second,
		},
		Typing: TypingConfig{
			QuietPeriod: 2 * time.Second,
		},
		Notify: NotifyConfig{
			Command: "paplay",
			Sound:   "/usr/share/sounds/freedesktop/stereo/message.oga",
		},
	}
}

// Load merges defaults, the optional config file and environment overrides,
// then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("CHAT_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "CHAT_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Self.ID <= 0 {
		return fmt.Errorf("config: self.id is required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("config: backend.base_url is required")
	}
	if c.Transport.URL == "" {
		return fmt.Errorf("config: transport.url is required")
	}
	return nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
