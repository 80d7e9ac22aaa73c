package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/jwt"

	"github.com/simp-lee/homemarket/internal/domain"
)

const identityContextKey = "identity"

const bearerPrefix = "Bearer "

// RequireAuth returns a gin middleware that validates the Authorization
// bearer token and stores the resolved domain.Identity in the gin context.
// Handlers read it with IdentityFrom and pass it explicitly into services;
// nothing downstream consults the token or any global auth state.
func RequireAuth(jwtSvc jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		parsed, err := jwtSvc.ValidateAndParse(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		userID, err := strconv.ParseUint(parsed.UserID, 10, 64)
		if err != nil || userID == 0 {
			abortUnauthorized(c, "invalid token subject")
			return
		}

		c.Set(identityContextKey, domain.Identity{UserID: uint(userID)})
		c.Next()
	}
}

// IdentityFrom returns the authenticated identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, exists := c.Get(identityContextKey)
	if !exists {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": msg,
		"data":    nil,
	})
}
