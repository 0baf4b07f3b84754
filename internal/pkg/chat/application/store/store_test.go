package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
)

func msg(id int64, at time.Time) chat.Message {
	return chat.Message{ID: id, Content: "m", SenderID: 99, CreatedAt: at}
}

func openWindow(t *testing.T, s *Store, id int64) {
	t.Helper()
	require.True(t, s.Open(chat.Conversation{ID: id, Peer: chat.User{ID: 100 + id}}))
}

func TestOpenIsIdempotentPerID(t *testing.T) {
	s := NewStore()

	assert.True(t, s.Open(chat.Conversation{ID: 42}))
	assert.False(t, s.Open(chat.Conversation{ID: 42}), "second open of the same id must be a no-op")
	assert.Len(t, s.Snapshot(), 1)
}

func TestOpenResetsUnread(t *testing.T) {
	s := NewStore()

	require.True(t, s.Open(chat.Conversation{ID: 42, UnreadCount: 7}))
	win, ok := s.Get(42)
	require.True(t, ok)
	assert.Zero(t, win.UnreadCount)
}

func TestCloseRemovesWindow(t *testing.T) {
	s := NewStore()
	openWindow(t, s, 42)

	assert.True(t, s.Close(42))
	assert.False(t, s.Close(42))
	assert.False(t, s.Contains(42))
	assert.Empty(t, s.Snapshot())
}

func TestAppendMessageOrderingAndDedupe(t *testing.T) {
	s := NewStore()
	openWindow(t, s, 42)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	added, open := s.AppendMessage(42, msg(2, base.Add(2*time.Second)))
	assert.True(t, added)
	assert.True(t, open)

	// Late arrival lands before the existing entry.
	added, _ = s.AppendMessage(42, msg(1, base.Add(time.Second)))
	assert.True(t, added)

	// Duplicate id is dropped but the window is still reported open.
	added, open = s.AppendMessage(42, msg(2, base.Add(2*time.Second)))
	assert.False(t, added)
	assert.True(t, open)

	win, _ := s.Get(42)
	require.Len(t, win.Messages, 2)
	assert.Equal(t, int64(1), win.Messages[0].ID)
	assert.Equal(t, int64(2), win.Messages[1].ID)
}

func TestAppendMessageClosedWindow(t *testing.T) {
	s := NewStore()

	added, open := s.AppendMessage(42, msg(1, time.Now()))
	assert.False(t, added)
	assert.False(t, open)
}

func TestUnreadOnlyAccumulatesWhileMinimized(t *testing.T) {
	s := NewStore()
	openWindow(t, s, 42)

	// Visible window: increments are swallowed.
	s.IncrementUnread(42)
	win, _ := s.Get(42)
	assert.Zero(t, win.UnreadCount)

	require.True(t, s.SetMinimized(42, true))
	s.IncrementUnread(42)
	s.IncrementUnread(42)
	win, _ = s.Get(42)
	assert.Equal(t, 2, win.UnreadCount)

	// Un-minimizing restores the visible-window invariant.
	require.True(t, s.SetMinimized(42, false))
	win, _ = s.Get(42)
	assert.Zero(t, win.UnreadCount)
}

func TestToggleMinimizedClearsUnreadBothWays(t *testing.T) {
	s := NewStore()
	openWindow(t, s, 42)

	minimized, ok := s.ToggleMinimized(42)
	require.True(t, ok)
	require.True(t, minimized)

	s.IncrementUnread(42)
	win, _ := s.Get(42)
	require.Equal(t, 1, win.UnreadCount)

	minimized, ok = s.ToggleMinimized(42)
	require.True(t, ok)
	assert.False(t, minimized)
	win, _ = s.Get(42)
	assert.Zero(t, win.UnreadCount)
}

func TestTotalUnread(t *testing.T) {
	s := NewStore()
	openWindow(t, s, 1)
	openWindow(t, s, 2)
	require.True(t, s.SetMinimized(1, true))
	require.True(t, s.SetMinimized(2, true))

	s.IncrementUnread(1)
	s.IncrementUnread(2)
	s.IncrementUnread(2)
	assert.Equal(t, 3, s.TotalUnread())

	require.True(t, s.ClearUnread(2))
	assert.Equal(t, 1, s.TotalUnread())
}

func TestSnapshotKeepsOpenOrderAndIsolation(t *testing.T) {
	s := NewStore()
	openWindow(t, s, 3)
	openWindow(t, s, 1)
	openWindow(t, s, 2)

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, int64(3), snap[0].ID)
	assert.Equal(t, int64(1), snap[1].ID)
	assert.Equal(t, int64(2), snap[2].ID)

	// Mutating a snapshot must not leak into the store.
	s.AppendMessage(3, msg(1, time.Now()))
	win, _ := s.Get(3)
	win.Messages[0].Content = "tampered"
	fresh, _ := s.Get(3)
	assert.Equal(t, "m", fresh.Messages[0].Content)
}

func TestFindByPeer(t *testing.T) {
	s := NewStore()
	require.True(t, s.Open(chat.Conversation{ID: 42, Peer: chat.User{ID: 7}}))

	id, ok := s.FindByPeer(7)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = s.FindByPeer(8)
	assert.False(t, ok)
}

func TestSetTyping(t *testing.T) {
	s := NewStore()
	openWindow(t, s, 42)

	require.True(t, s.SetTyping(42, true))
	win, _ := s.Get(42)
	assert.True(t, win.IsTyping)

	require.True(t, s.SetTyping(42, false))
	win, _ = s.Get(42)
	assert.False(t, win.IsTyping)

	assert.False(t, s.SetTyping(99, true))
}
