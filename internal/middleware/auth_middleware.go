// internal/middleware/auth_middleware.go
package middleware

import (
	"strings"

	"accounts-service/internal/pkg/response"
	"accounts-service/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

// Context keys set by Authenticate.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxJTI    = "jti"
)

type AuthMiddleware struct {
	verifier *token.Issuer
}

func NewAuthMiddleware(verifier *token.Issuer) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate validates the bearer token and attaches the principal to the
// request context. Trust is claims-only: no store lookup happens here, so a
// user deleted after issuance stays authenticated until the token expires.
// Handlers needing freshness (e.g. the profile read) look the user up
// themselves.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := extractToken(c)
		if tok == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		claims, err := m.verifier.VerifyAccess(tok)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxJTI, claims.ID)

		c.Next()
	}
}

// Allowed is the authorization decision: whether role is in the allowed set.
// It is a pure function so route configuration stays explicit and testable.
func Allowed(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// RequireRole rejects principals whose role is not in the allowed set.
// MUST be used after Authenticate().
func (m *AuthMiddleware) RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			response.Forbidden(c, "no principal - authentication required")
			return
		}

		if !Allowed(role, allowed...) {
			response.Forbidden(c, "insufficient permissions")
			return
		}

		c.Next()
	}
}

// extractToken extracts the bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}

	return ""
}

// GetUserID returns the authenticated user's id from the context.
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetRole returns the authenticated user's role from the context.
func GetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxRole)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// MustGetUserID gets the user id from context or panics. Only for handlers
// registered behind Authenticate().
func MustGetUserID(c *gin.Context) int64 {
	id, ok := GetUserID(c)
	if !ok {
		panic("user_id not found in context")
	}
	return id
}
