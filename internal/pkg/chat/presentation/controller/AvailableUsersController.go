package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trigaass/Hauz/internal/pkg/chat/application/session"
)

// AvailableUsersController lists candidates for a new conversation
// (one controller per endpoint)
type AvailableUsersController struct {
	S *session.Manager
}

func NewAvailableUsersController(s *session.Manager) *AvailableUsersController {
	return &AvailableUsersController{S: s}
}

func (h *AvailableUsersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		users, err := h.S.AvailableUsers(ctx)
		if err != nil {
			replyError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
	}
}
