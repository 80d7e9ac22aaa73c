package listing

import "github.com/gin-gonic/gin"

// ListingModule implements the app.Module interface for the listing domain.
type ListingModule struct {
	handler *ListingHandler
}

// NewModule creates a new ListingModule with the given handler.
// Panics if h is nil.
func NewModule(h *ListingHandler) *ListingModule {
	if h == nil {
		panic("listing.NewModule: handler must not be nil")
	}
	return &ListingModule{handler: h}
}

// RegisterRoutes registers listing routes. Feed and detail reads are public;
// every mutation and the owner's personal set require authentication.
func (m *ListingModule) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/listings", m.handler.Page)
	public.GET("/listings/:id", m.handler.Get)

	authed.POST("/listings", m.handler.Create)
	authed.PUT("/listings/:id", m.handler.Update)
	authed.DELETE("/listings/:id", m.handler.Delete)
	authed.GET("/users/me/listings", m.handler.OwnerListings)
}
