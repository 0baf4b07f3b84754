package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trigaass/Hauz/internal/pkg/chat/application/session"
	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
)

// conversationParam parses the :conversationId path parameter.
func conversationParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("conversationId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId must be a positive integer"})
		return 0, false
	}
	return id, true
}

// replyError maps session errors onto HTTP statuses.
func replyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrUnknownConversation):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation is not open"})
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message content must not be blank"})
	case errors.Is(err, session.ErrFetchFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "chat service is temporarily unavailable, try again"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// ListChatsController exposes the open windows and the total unread badge.
type ListChatsController struct {
	S *session.Manager
}

func NewListChatsController(s *session.Manager) *ListChatsController {
	return &ListChatsController{S: s}
}

func (h *ListChatsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversations := h.S.OpenConversations()
		out := make([]gin.H, 0, len(conversations))
		for _, conv := range conversations {
			out = append(out, gin.H{
				"conversation_id": conv.ID,
				"peer":            conv.Peer,
				"is_minimized":    conv.IsMinimized,
				"unread_count":    conv.UnreadCount,
				"is_typing":       conv.IsTyping,
				"messages":        conv.Messages,
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"conversations": out,
			"total_unread":  h.S.TotalUnread(),
		})
	}
}
