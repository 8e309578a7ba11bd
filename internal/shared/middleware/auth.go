package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/humanmade/authorship/internal/domains/user"
	"github.com/humanmade/authorship/internal/shared/response"
	"github.com/humanmade/authorship/pkg/jwt"
)

const currentUserKey = "currentUser"

// UserLoader loads the authenticated user record for the token subject.
type UserLoader interface {
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

// Auth validates the bearer token and attaches the current user to the
// request context. Requests without a valid token are rejected.
func Auth(jwtManager *jwt.Manager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		u, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Unauthorized(c, "unknown token subject")
			c.Abort()
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by Auth, or nil on
// unauthenticated routes.
func CurrentUser(c *gin.Context) *user.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	u, ok := value.(*user.User)
	if !ok {
		return nil
	}
	return u
}
