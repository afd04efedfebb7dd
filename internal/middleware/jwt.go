package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"legal_practice/internal/auth"  // Token revocation
	"legal_practice/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Context keys set by JWTAuthMiddleware
const (
	CtxUserID      = "userID"      // Account id, hex string
	CtxEmail       = "email"       // Account email at token issue
	CtxUserType    = "userType"    // Role claim
	CtxTokenID     = "tokenID"     // jti, used by logout
	CtxTokenExpiry = "tokenExpiry" // time.Time expiry, used by logout
)

// BearerToken extracts the token from an Authorization header, empty when absent or blank
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// JWTAuthMiddleware validates JWT tokens, rejects revoked ones and extracts the claims
func JWTAuthMiddleware(secret string, revocations *auth.Revocations, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := BearerToken(c.GetHeader("Authorization")) // Get token from the Authorization header
		// Check if a token was sent at all
		if tokenStr == "" {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Check whether the token was logged out
		revoked, err := revocations.IsRevoked(c.Request.Context(), claims.TokenID())
		if err != nil {
			log.WithError(err).Error("Failed to check token revocation")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify token"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(CtxUserID, claims.UserID)        // Store userID in context
		c.Set(CtxEmail, claims.Email)          // Store email in context
		c.Set(CtxUserType, claims.UserType)    // Store role in context
		c.Set(CtxTokenID, claims.TokenID())    // Store jti for logout
		c.Set(CtxTokenExpiry, claims.Expiry()) // Store expiry for logout
		c.Next()                               // Proceed to the next handler
	}
}
