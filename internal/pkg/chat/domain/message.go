package chat

import (
	"errors"
	"strings"
	"time"
)

// Domain-level errors for chat behaviors
var (
	ErrEmptyMessage        = errors.New("chat: empty message body")
	ErrUnknownConversation = errors.New("chat: conversation is not open")
)

// Message is an immutable log entry in a conversation. Once appended only the
// Read flag may change, and only false -> true.
//
// Authoritative messages carry the server-assigned positive ID. Locally
// originated messages awaiting confirmation carry a negative provisional ID so
// the two can never be confused during reconciliation.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Content        string    `json:"content"`
	SenderID       int64     `json:"sender_id"`
	SenderEmail    string    `json:"sender_email"`
	CreatedAt      time.Time `json:"created_at"`
	Read           bool      `json:"read"`
}

// Provisional reports whether the message is an optimistic local entry that
// has not yet been superseded by authoritative history.
func (m Message) Provisional() bool { return m.ID < 0 }

// Before orders messages chronologically by CreatedAt, ties broken by ID.
func (m Message) Before(other Message) bool {
	if m.CreatedAt.Equal(other.CreatedAt) {
		return m.ID < other.ID
	}
	return m.CreatedAt.Before(other.CreatedAt)
}

// NewOutgoingMessage validates content and shapes the provisional message that
// is shown to the sender before the store confirms it. Blank content is
// rejected before any network activity.
func NewOutgoingMessage(conversationID int64, sender User, content string, now time.Time) (Message, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Message{}, ErrEmptyMessage
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return Message{
		ID:             -now.UnixMilli(),
		ConversationID: conversationID,
		Content:        trimmed,
		SenderID:       sender.ID,
		SenderEmail:    sender.Email,
		CreatedAt:      now.UTC(),
		Read:           false,
	}, nil
}
