package user

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/homemarket/internal/domain"
	"github.com/simp-lee/homemarket/internal/middleware"
	"github.com/simp-lee/homemarket/internal/pkg"
)

// UserHandler serves the profile endpoints.
type UserHandler struct {
	svc domain.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), identity.UserID)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, user)
}

// UpdateMe updates the authenticated user's profile.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), identity.UserID, req.Name, req.Email)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, user)
}
