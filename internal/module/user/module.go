package user

import "github.com/gin-gonic/gin"

// Module bundles the user feature routes.
type Module struct {
	handler *UserHandler
}

// NewModule creates the user module.
func NewModule(h *UserHandler) *Module {
	if h == nil {
		panic("user: handler is required")
	}
	return &Module{handler: h}
}

// RegisterRoutes mounts the profile endpoints on the authenticated group.
func (m *Module) RegisterRoutes(public, authed *gin.RouterGroup) {
	me := authed.Group("/users/me")
	{
		me.GET("", m.handler.Me)
		me.PUT("", m.handler.UpdateMe)
	}
}
