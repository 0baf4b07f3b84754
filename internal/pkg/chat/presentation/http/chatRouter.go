package http

import (
	"github.com/gin-gonic/gin"

	"github.com/trigaass/Hauz/internal/pkg/chat/application/session"
	"github.com/trigaass/Hauz/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers chat-related HTTP endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes.
func RegisterRoutes(g *gin.RouterGroup, mgr *session.Manager) {
	listCtl := controller.NewListChatsController(mgr)
	usersCtl := controller.NewAvailableUsersController(mgr)
	startCtl := controller.NewStartChatController(mgr)
	sendCtl := controller.NewSendMessageController(mgr)
	closeCtl := controller.NewCloseChatController(mgr)
	minimizeCtl := controller.NewToggleMinimizeController(mgr)
	readCtl := controller.NewMarkReadController(mgr)
	typingCtl := controller.NewTypingController(mgr)

	// GET /api/v1/chat -> open windows + total unread badge
	g.GET("/chat", listCtl.Handle())

	// GET /api/v1/chat/users -> candidates for a new conversation
	g.GET("/chat/users", usersCtl.Handle())

	// POST /api/v1/chat/start -> open (or re-surface) a window for a peer
	g.POST("/chat/start", startCtl.Handle())

	// POST /api/v1/chat/:conversationId/messages -> send a message
	g.POST("/chat/:conversationId/messages", sendCtl.Handle())

	// DELETE /api/v1/chat/:conversationId -> close the window
	g.DELETE("/chat/:conversationId", closeCtl.Handle())

	// POST /api/v1/chat/:conversationId/minimize -> toggle minimized state
	g.POST("/chat/:conversationId/minimize", minimizeCtl.Handle())

	// POST /api/v1/chat/:conversationId/read -> persist read status
	g.POST("/chat/:conversationId/read", readCtl.Handle())

	// POST /api/v1/chat/:conversationId/typing -> local keystroke signal
	g.POST("/chat/:conversationId/typing", typingCtl.Handle())
}
