package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/homemarket/internal/domain"
	"github.com/simp-lee/homemarket/internal/middleware"
	"github.com/simp-lee/homemarket/internal/pkg"
)

// AuthHandler handles REST API requests for authentication.
type AuthHandler struct {
	svc     Service
	userSvc domain.UserService
}

// NewHandler creates a new AuthHandler with the given services.
func NewHandler(svc Service, userSvc domain.UserService) *AuthHandler {
	return &AuthHandler{svc: svc, userSvc: userSvc}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	tokenResp, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, tokenResp)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, RegisterResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// Me handles GET /api/v1/auth/me, returning the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	user, err := h.userSvc.GetUser(c.Request.Context(), identity.UserID)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, user)
}
