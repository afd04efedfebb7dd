package middleware

import (
	"net/http" // HTTP status codes

	"legal_practice/internal/domain" // Role constants
	"legal_practice/internal/store"  // Identity store
	"legal_practice/internal/wire"   // Id parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the user's role from the database on each request
func AdminOnlyMiddleware(users store.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(CtxUserID) // Get userID from context
		// Check if userID exists in context
		id, ok := wire.ParseRef(userID)
		if !ok {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		user, err := users.FindByID(c.Request.Context(), id) // Fetch user from database
		if err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// Check the stored role rather than the token claim
		if user.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next() // If admin, proceed to the next handler
	}
}
