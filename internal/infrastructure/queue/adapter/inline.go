package adapter

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/trigaass/Hauz/internal/infrastructure/queue/port"
)

// InlineQueue is an in-process queue for deployments without Redis and for
// tests. It implements both port.Client and port.Server: Enqueue dispatches
// to the registered handler on the calling goroutine, once, with no retry.
type InlineQueue struct {
	mu       sync.RWMutex
	handlers map[string]port.Handler
	nextID   atomic.Int64
	log      *zap.Logger
}

// NewInlineQueue constructs an empty InlineQueue.
func NewInlineQueue(log *zap.Logger) *InlineQueue {
	if log == nil {
		log = zap.NewNop()
	}
	return &InlineQueue{
		handlers: make(map[string]port.Handler),
		log:      log,
	}
}

// Ensure interfaces are satisfied
var (
	_ port.Client = (*InlineQueue)(nil)
	_ port.Server = (*InlineQueue)(nil)
)

func (q *InlineQueue) Enqueue(ctx context.Context, t port.Task, _ ...port.EnqueueOption) (string, error) {
	if t.Type == "" {
		return "", errors.New("inline queue: task type is required")
	}
	q.mu.RLock()
	h, ok := q.handlers[t.Type]
	q.mu.RUnlock()
	if !ok {
		return "", errors.New("inline queue: no handler for " + t.Type)
	}

	id := strconv.FormatInt(q.nextID.Add(1), 10)
	if err := h(ctx, t); err != nil {
		// Single-shot semantics: report the failure, never retry.
		q.log.Warn("inline task failed", zap.String("type", t.Type), zap.Error(err))
		return id, err
	}
	return id, nil
}

func (q *InlineQueue) Close() error { return nil }

func (q *InlineQueue) Register(taskType string, h port.Handler) {
	q.mu.Lock()
	q.handlers[taskType] = h
	q.mu.Unlock()
}

// Run blocks until the context is canceled; dispatch happens in Enqueue.
func (q *InlineQueue) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (q *InlineQueue) Stop(context.Context) error { return nil }
