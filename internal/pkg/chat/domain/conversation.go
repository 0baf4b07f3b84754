package chat

// Conversation is the state of one open chat window: the peer, the message
// history known so far, and the view flags the unread counter depends on.
//
// The underlying conversation record lives in the external store; closing a
// window discards this state only.
type Conversation struct {
	ID          int64     `json:"conversation_id"`
	Peer        User      `json:"peer"`
	Messages    []Message `json:"messages"`
	IsMinimized bool      `json:"is_minimized"`
	UnreadCount int       `json:"unread_count"`
	IsTyping    bool      `json:"is_typing"`
}
