package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/folio-studio/portfolio-api/internal/sessions"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// AdminCheck reports whether the subject of a verified token still exists and is an admin.
type AdminCheck func(ctx context.Context, userID string) (bool, error)

// RawToken returns the token presented by the client: the named cookie first,
// then an `Authorization: Bearer <token>` header.
func RawToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// AuthMiddleware verifies the session token, rejects revoked tokens and, when
// isAdmin is non-nil, requires the subject to be an admin.
// On success it stores `claims` (map) and `userId` in the gin context.
func AuthMiddleware(ver Verifier, cookieName string, isAdmin AdminCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := RawToken(c, cookieName)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}

		if revoked, err := sessions.IsAccessTokenRevoked(c.Request.Context(), raw); err != nil {
			logger.Warnf("revocation check failed: %v", err)
		} else if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token invalid or expired"})
			return
		}

		tok, err := ver.Verify(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token invalid or expired"})
			return
		}

		var claims map[string]interface{}
		if err := tok.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token invalid or expired"})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token invalid or expired"})
			return
		}

		if isAdmin != nil {
			ok, err := isAdmin(c.Request.Context(), sub)
			if err != nil {
				logger.Errorf("admin lookup for %s failed: %v", sub, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
			if !ok {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
				return
			}
		}

		c.Set("claims", claims)
		c.Set("userId", sub)
		c.Next()
	}
}
