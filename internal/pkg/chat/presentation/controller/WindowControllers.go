package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trigaass/Hauz/internal/pkg/chat/application/session"
)

// CloseChatController removes a conversation window; server-side history
// is untouched.
type CloseChatController struct {
	S *session.Manager
}

func NewCloseChatController(s *session.Manager) *CloseChatController {
	return &CloseChatController{S: s}
}

func (h *CloseChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := conversationParam(c)
		if !ok {
			return
		}
		if err := h.S.CloseChat(conversationID); err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "closed", "conversation_id": conversationID})
	}
}

// ToggleMinimizeController flips a window between visible and minimized.
type ToggleMinimizeController struct {
	S *session.Manager
}

func NewToggleMinimizeController(s *session.Manager) *ToggleMinimizeController {
	return &ToggleMinimizeController{S: s}
}

func (h *ToggleMinimizeController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := conversationParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		minimized, err := h.S.ToggleMinimize(ctx, conversationID)
		if err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"conversation_id": conversationID,
			"is_minimized":    minimized,
		})
	}
}

// MarkReadController persists read status for a conversation.
type MarkReadController struct {
	S *session.Manager
}

func NewMarkReadController(s *session.Manager) *MarkReadController {
	return &MarkReadController{S: s}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := conversationParam(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.S.MarkAsRead(ctx, conversationID); err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "read", "conversation_id": conversationID})
	}
}

// TypingController records a local keystroke for the conversation; the
// debouncer turns bursts into start/stop signals.
type TypingController struct {
	S *session.Manager
}

func NewTypingController(s *session.Manager) *TypingController {
	return &TypingController{S: s}
}

// typingRequest is the DTO for the HTTP request body
type typingRequest struct {
	Text string `json:"text"`
}

func (h *TypingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := conversationParam(c)
		if !ok {
			return
		}

		var req typingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := h.S.OnTypingInput(conversationID, req.Text); err != nil {
			replyError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
