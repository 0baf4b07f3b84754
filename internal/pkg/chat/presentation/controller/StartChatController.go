package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trigaass/Hauz/internal/pkg/chat/application/session"
	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
)

// StartChatController opens (or re-surfaces) a conversation window
// (one controller per endpoint)
type StartChatController struct {
	S *session.Manager
}

func NewStartChatController(s *session.Manager) *StartChatController {
	return &StartChatController{S: s}
}

// startChatRequest is the DTO for the HTTP request body
type startChatRequest struct {
	Peer struct {
		ID    int64  `json:"id" binding:"required"`
		Email string `json:"email" binding:"required"`
		Role  string `json:"role"`
	} `json:"peer" binding:"required"`
}

func (h *StartChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		peer := chat.User{
			ID:    req.Peer.ID,
			Email: req.Peer.Email,
			Role:  chat.Role(req.Peer.Role),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		conv, err := h.S.StartConversation(ctx, peer)
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"conversation_id": conv.ID,
			"peer":            conv.Peer,
			"is_minimized":    conv.IsMinimized,
			"unread_count":    conv.UnreadCount,
			"messages":        conv.Messages,
		})
	}
}
