package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
	"github.com/noah-isme/edu-archive-api/pkg/response"
)

// ContextUserKey is the gin context key storing session claims.
const ContextUserKey = "currentAdmin"

// SessionValidator resolves a session token into claims.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.SessionClaims, error)
}

// RequireAdmin protects routes by requiring a live admin session carried in
// the session cookie or a Bearer Authorization header. Rejected requests get
// meta.next set to the requested URI so clients can return after login.
func RequireAdmin(auth SessionValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := SessionToken(c, cookieName)
		if err == nil {
			var claims *models.SessionClaims
			claims, err = auth.ValidateSession(c.Request.Context(), token)
			if err == nil {
				c.Set(ContextUserKey, claims)
				c.Next()
				return
			}
		}

		response.Error(c, err, map[string]interface{}{"next": c.Request.URL.RequestURI()})
		c.Abort()
	}
}

// SessionToken extracts the session token, preferring the Authorization
// header over the cookie.
func SessionToken(c *gin.Context, cookieName string) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
			return cookie, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
}

// CurrentAdmin returns the claims stored by RequireAdmin.
func CurrentAdmin(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.SessionClaims)
	return claims
}
