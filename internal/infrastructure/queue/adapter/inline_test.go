package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trigaass/Hauz/internal/infrastructure/queue/port"
)

func TestInlineQueueDispatchesSynchronously(t *testing.T) {
	q := NewInlineQueue(zap.NewNop())

	var got []string
	q.Register("test:task", func(_ context.Context, task port.Task) error {
		got = append(got, string(task.Payload))
		return nil
	})

	id1, err := q.Enqueue(context.Background(), port.Task{Type: "test:task", Payload: []byte("a")})
	require.NoError(t, err)
	id2, err := q.Enqueue(context.Background(), port.Task{Type: "test:task", Payload: []byte("b")})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got)
	assert.NotEqual(t, id1, id2)
}

func TestInlineQueueUnknownTask(t *testing.T) {
	q := NewInlineQueue(zap.NewNop())

	_, err := q.Enqueue(context.Background(), port.Task{Type: "nobody:home"})
	assert.Error(t, err)

	_, err = q.Enqueue(context.Background(), port.Task{})
	assert.Error(t, err)
}

func TestInlineQueueSingleShot(t *testing.T) {
	q := NewInlineQueue(zap.NewNop())

	calls := 0
	q.Register("test:fail", func(context.Context, port.Task) error {
		calls++
		return errors.New("boom")
	})

	_, err := q.Enqueue(context.Background(), port.Task{Type: "test:fail"})
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "failures are reported, never retried")
}
