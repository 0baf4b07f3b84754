package transport

import (
	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
)

// Frame types spoken over the channel. Outbound types go client -> backend,
// inbound types arrive backend -> client.
const (
	FrameUserOnline      = "user:online"
	FrameMessageSend     = "message:send"
	FrameTypingStart     = "typing:start"
	FrameTypingStop      = "typing:stop"
	FrameMessageReceived = "message:received"
	FrameTypingIndicator = "typing:indicator"
)

// frame is the single wire envelope for every event on the channel. Fields
// are populated per frame type; unused ones are omitted.
type frame struct {
	Type           string        `json:"type"`
	UserID         int64         `json:"user_id,omitempty"`
	ConversationID int64         `json:"conversation_id,omitempty"`
	ReceiverID     int64         `json:"receiver_id,omitempty"`
	IsTyping       bool          `json:"is_typing,omitempty"`
	Message        *chat.Message `json:"message,omitempty"`
}
