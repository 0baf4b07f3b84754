package typing

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long after the last keystroke a typing:stop is
// emitted when no explicit stop arrives first.
const DefaultQuietPeriod = 2 * time.Second

// Emitter delivers typing signals to the peer. Emits are best-effort; the
// debouncer ignores emit failures.
type Emitter interface {
	EmitTypingStart(conversationID, receiverID int64) error
	EmitTypingStop(conversationID, receiverID int64) error
}

// pending is the cancellable timer handle for one conversation.
type pending struct {
	timer      *time.Timer
	receiverID int64
}

// Debouncer converts a burst of local keystrokes into a single typing:start
// followed by exactly one typing:stop once the quiet period elapses.
//
// There is at most one outstanding timer per conversation; a new keystroke
// cancels and restarts it rather than stacking a second signal.
type Debouncer struct {
	emitter Emitter
	quiet   time.Duration

	mu      sync.Mutex
	pending map[int64]*pending
}

// NewDebouncer constructs a Debouncer with the given quiet period. A zero or
// negative period falls back to DefaultQuietPeriod.
func NewDebouncer(emitter Emitter, quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{
		emitter: emitter,
		quiet:   quiet,
		pending: make(map[int64]*pending),
	}
}

// Keystroke records local typing activity for the conversation. The first
// keystroke of a burst emits typing:start; subsequent keystrokes only push
// the quiet-period timer out.
func (d *Debouncer) Keystroke(conversationID, receiverID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, active := d.pending[conversationID]; active {
		p.receiverID = receiverID
		p.timer.Reset(d.quiet)
		return
	}

	_ = d.emitter.EmitTypingStart(conversationID, receiverID)
	d.pending[conversationID] = &pending{
		receiverID: receiverID,
		timer: time.AfterFunc(d.quiet, func() {
			d.expire(conversationID)
		}),
	}
}

// Flush cancels the pending timer and emits typing:stop immediately if the
// conversation was in the typing state. Called on send and on window close.
func (d *Debouncer) Flush(conversationID int64) {
	d.mu.Lock()
	p, active := d.pending[conversationID]
	if active {
		p.timer.Stop()
		delete(d.pending, conversationID)
	}
	d.mu.Unlock()

	if active {
		_ = d.emitter.EmitTypingStop(conversationID, p.receiverID)
	}
}

// StopAll cancels every outstanding timer without emitting. Used on session
// shutdown, when the transport is going away anyway.
func (d *Debouncer) StopAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, id)
	}
}

func (d *Debouncer) expire(conversationID int64) {
	d.mu.Lock()
	p, active := d.pending[conversationID]
	if active {
		delete(d.pending, conversationID)
	}
	d.mu.Unlock()

	if active {
		_ = d.emitter.EmitTypingStop(conversationID, p.receiverID)
	}
}
