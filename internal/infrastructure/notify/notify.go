package notify

import (
	"context"
	"errors"
	"os/exec"
)

// Notifier surfaces an audio cue for an inbound message. Implementations are
// best-effort: callers swallow every error.
type Notifier interface {
	Play(ctx context.Context) error
}

// CommandPlayer shells out to a local player (paplay, afplay, ...) with the
// configured sound file. Missing binaries or denied audio devices simply
// error, and the error is ignored upstream.
type CommandPlayer struct {
	Command string
	Sound   string
}

func NewCommandPlayer(command, sound string) *CommandPlayer {
	return &CommandPlayer{Command: command, Sound: sound}
}

var _ Notifier = (*CommandPlayer)(nil)

func (p *CommandPlayer) Play(ctx context.Context) error {
	if p.Command == "" {
		return errors.New("notify: no player command configured")
	}
	return exec.CommandContext(ctx, p.Command, p.Sound).Run()
}

// Nop is a Notifier that does nothing. Used when notifications are disabled
// and in tests.
type Nop struct{}

func (Nop) Play(context.Context) error { return nil }
