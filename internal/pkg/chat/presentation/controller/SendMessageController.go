package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trigaass/Hauz/internal/pkg/chat/application/session"
)

// SendMessageController handles the send-message endpoint only (one
// controller per endpoint)
type SendMessageController struct {
	S *session.Manager
}

func NewSendMessageController(s *session.Manager) *SendMessageController {
	return &SendMessageController{S: s}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Content string `json:"content"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := conversationParam(c)
		if !ok {
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.S.SendMessage(ctx, conversationID, req.Content); err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"status":          "sent",
			"conversation_id": conversationID,
		})
	}
}
