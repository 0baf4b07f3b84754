package store

import (
	"sync"

	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
)

// Store is the mutable table of currently open conversation windows.
// It holds exactly one entry per conversation id and keeps the unread
// invariant internally: a window that is not minimized always reads zero.
//
// All methods are safe for concurrent use; mutations that feed derived values
// (the total unread badge) happen under the same lock that computes them.
type Store struct {
	mu            sync.RWMutex
	conversations map[int64]*chat.Conversation
	order         []int64 // window open order, for stable listing
}

// NewStore constructs an initialized Store.
func NewStore() *Store {
	return &Store{
		conversations: make(map[int64]*chat.Conversation),
	}
}

// Open registers a window for the conversation. It reports false if a window
// with the same id is already open, in which case nothing changes.
func (s *Store) Open(conv chat.Conversation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[conv.ID]; exists {
		return false
	}
	conv.UnreadCount = 0
	c := conv
	s.conversations[conv.ID] = &c
	s.order = append(s.order, conv.ID)
	return true
}

// Close removes the window. The server-side conversation is untouched.
func (s *Store) Close(conversationID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[conversationID]; !exists {
		return false
	}
	delete(s.conversations, conversationID)
	for i, id := range s.order {
		if id == conversationID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether a window is open for the conversation.
func (s *Store) Contains(conversationID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.conversations[conversationID]
	return ok
}

// Get returns a copy of the window state.
func (s *Store) Get(conversationID int64) (chat.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return chat.Conversation{}, false
	}
	return snapshotLocked(conv), true
}

// FindByPeer returns the id of the open window whose peer matches, if any.
func (s *Store) FindByPeer(peerID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conv := range s.conversations {
		if conv.Peer.ID == peerID {
			return conv.ID, true
		}
	}
	return 0, false
}

// AppendMessage adds one message to the window's history, keeping the
// sequence ordered by created_at (ties by id) and free of duplicate ids.
// It returns whether the message was newly added and whether the window is
// open; appending an id that is already present is a no-op.
func (s *Store) AppendMessage(conversationID int64, m chat.Message) (added, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return false, false
	}
	for _, existing := range conv.Messages {
		if existing.ID == m.ID {
			return false, true
		}
	}
	// Arrivals are usually in order; walk back only as far as needed.
	i := len(conv.Messages)
	for i > 0 && m.Before(conv.Messages[i-1]) {
		i--
	}
	conv.Messages = append(conv.Messages, chat.Message{})
	copy(conv.Messages[i+1:], conv.Messages[i:])
	conv.Messages[i] = m
	return true, true
}

// SetMessages replaces the window's history wholesale. Used after a
// reconciling refetch; the caller is responsible for ordering.
func (s *Store) SetMessages(conversationID int64, msgs []chat.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return false
	}
	conv.Messages = append([]chat.Message(nil), msgs...)
	return true
}

// SetMinimized updates the window's minimized flag. Un-minimizing clears the
// unread counter, preserving the invariant that visible windows read zero.
func (s *Store) SetMinimized(conversationID int64, minimized bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return false
	}
	conv.IsMinimized = minimized
	if !minimized {
		conv.UnreadCount = 0
	}
	return true
}

// ToggleMinimized flips the minimized flag and clears the unread counter in
// both directions, matching the window behavior of the host application.
// It returns the new minimized state.
func (s *Store) ToggleMinimized(conversationID int64) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return false, false
	}
	conv.IsMinimized = !conv.IsMinimized
	conv.UnreadCount = 0
	return conv.IsMinimized, true
}

// IncrementUnread bumps the unread counter, but only while the window is
// minimized; visible windows stay at zero.
func (s *Store) IncrementUnread(conversationID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return false
	}
	if conv.IsMinimized {
		conv.UnreadCount++
	}
	return true
}

// ClearUnread resets the unread counter to zero.
func (s *Store) ClearUnread(conversationID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return false
	}
	conv.UnreadCount = 0
	return true
}

// SetTyping updates the peer's live typing indicator.
func (s *Store) SetTyping(conversationID int64, isTyping bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return false
	}
	conv.IsTyping = isTyping
	return true
}

// Snapshot returns copies of all open windows in open order.
func (s *Store) Snapshot() []chat.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]chat.Conversation, 0, len(s.order))
	for _, id := range s.order {
		if conv, ok := s.conversations[id]; ok {
			out = append(out, snapshotLocked(conv))
		}
	}
	return out
}

// TotalUnread sums the unread counters of all open windows.
func (s *Store) TotalUnread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, conv := range s.conversations {
		total += conv.UnreadCount
	}
	return total
}

func snapshotLocked(conv *chat.Conversation) chat.Conversation {
	c := *conv
	c.Messages = append([]chat.Message(nil), conv.Messages...)
	return c
}
