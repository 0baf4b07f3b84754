package v1

import (
	httpHandler "github.com/trigaass/Hauz/internal/pkg/chat/presentation/http"

	"github.com/gin-gonic/gin"

	"github.com/trigaass/Hauz/internal/pkg/chat/application/session"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, mgr *session.Manager) {
	v1 := r.Group("/api/v1")
	// Pass the session manager down to the HTTP layer
	httpHandler.RegisterRoutes(v1, mgr)
}
