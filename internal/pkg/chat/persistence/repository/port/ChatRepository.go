package repository

import (
	"context"

	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
)

// ChatRepository defines the operations the chat core consumes from the
// external message store. The store owns persistence and the conversation
// records; this core only reads and appends through it.
type ChatRepository interface {
	// AvailableUsers lists candidates eligible to start a conversation with.
	// Role filtering is the caller's responsibility.
	AvailableUsers(ctx context.Context, selfID, scopeID int64) ([]chat.User, error)

	// GetOrCreateConversation resolves the conversation id for the unordered
	// user pair, creating the record if needed. Idempotent per pair.
	GetOrCreateConversation(ctx context.Context, selfID, peerID int64) (int64, error)

	// GetMessages returns paged authoritative history, ascending by created_at.
	GetMessages(ctx context.Context, conversationID, selfID int64, limit, offset int) ([]chat.Message, error)

	// SendMessage persists one message and returns the authoritative row.
	SendMessage(ctx context.Context, conversationID, senderID int64, content string) (chat.Message, error)

	// MarkConversationRead persists read status for self in the conversation.
	MarkConversationRead(ctx context.Context, conversationID, selfID int64) error
}
