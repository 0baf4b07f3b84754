package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	v1 "github.com/trigaass/Hauz/cmd/chat/router/v1"
	cacheAdapter "github.com/trigaass/Hauz/internal/infrastructure/cache/adapter"
	cport "github.com/trigaass/Hauz/internal/infrastructure/cache/port"
	"github.com/trigaass/Hauz/internal/config"
	"github.com/trigaass/Hauz/internal/infrastructure/notify"
	queueAdapter "github.com/trigaass/Hauz/internal/infrastructure/queue/adapter"
	qport "github.com/trigaass/Hauz/internal/infrastructure/queue/port"
	"github.com/trigaass/Hauz/internal/infrastructure/transport"
	"github.com/trigaass/Hauz/internal/pkg/chat/application/session"
	"github.com/trigaass/Hauz/internal/pkg/chat/application/task"
	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
	repoAdapter "github.com/trigaass/Hauz/internal/pkg/chat/persistence/repository/adapter"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis backs the cache and the notification queue when configured;
	// otherwise both run in-process.
	cache := newCache(cfg.Redis.URL, logger)
	defer func() { _ = cache.Close() }()

	queueClient, queueServer := newQueue(cfg.Redis.URL, logger)
	defer func() { _ = queueClient.Close() }()

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notify.Command != "" {
		notifier = notify.NewCommandPlayer(cfg.Notify.Command, cfg.Notify.Sound)
	}
	task.RegisterNotifyTask(queueServer, notifier, logger)
	go func() {
		if err := queueServer.Run(ctx); err != nil {
			logger.Error("queue server stopped", zap.Error(err))
		}
	}()

	repo := repoAdapter.NewHttpChatRepository(cfg.Backend.BaseURL, &http.Client{
		Timeout: cfg.Backend.Timeout,
	})

	channel := transport.NewChannel(cfg.Transport.URL, cfg.Transport.BackoffCap, logger)

	self := chat.User{
		ID:    cfg.Self.ID,
		Email: cfg.Self.Email,
		Role:  chat.Role(cfg.Self.Role),
	}
	mgr := session.NewManager(self, cfg.Self.CompanyID, repo, channel, queueClient, cache, logger, session.Options{
		TypingQuietPeriod: cfg.Typing.QuietPeriod,
		PageSize:          cfg.Backend.PageSize,
	})

	channel.OnMessage(mgr.HandleInboundMessage)
	channel.OnTyping(mgr.HandleTypingIndicator)
	channel.Connect(self.ID)

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})
	v1.RegisterRoutes(r, mgr)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", zap.Error(err))
	}
	mgr.Shutdown()
	channel.Disconnect()
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// newCache prefers redis and falls back to the in-process cache when redis is
// not configured or unreachable.
func newCache(redisURL string, logger *zap.Logger) cport.Cache {
	if redisURL == "" {
		return cacheAdapter.NewMemoryAdapter()
	}
	cache, err := cacheAdapter.NewRedisAdapter(redisURL)
	if err != nil {
		logger.Warn("redis cache unavailable, using in-process cache", zap.Error(err))
		return cacheAdapter.NewMemoryAdapter()
	}
	return cache
}

// newQueue prefers asynq over redis and falls back to synchronous in-process
// dispatch when redis is not configured or unreachable.
func newQueue(redisURL string, logger *zap.Logger) (qport.Client, qport.Server) {
	if redisURL != "" {
		client, cerr := queueAdapter.NewAsynqClient(redisURL)
		server, serr := queueAdapter.NewAsynqServer(redisURL, 4)
		if cerr == nil && serr == nil {
			return client, server
		}
		logger.Warn("asynq unavailable, using in-process queue",
			zap.NamedError("client", cerr), zap.NamedError("server", serr))
	}
	inline := queueAdapter.NewInlineQueue(logger)
	return inline, inline
}
