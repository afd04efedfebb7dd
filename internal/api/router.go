package api

import (
	"net/http" // HTTP status codes

	"legal_practice/internal/middleware" // Auth, logging and CORS middleware

	"github.com/gin-gonic/gin" // Gin web framework
)

// HealthHandler reports liveness and the database connection state
func HealthHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": d.DB.State().String()})
	}
}

// SetupRouter wires every route onto a new gin engine
func SetupRouter(d *Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(), middleware.RequestLogger(d.Log))

	r.GET("/health", HealthHandler(d)) // Health endpoint

	requireAuth := middleware.JWTAuthMiddleware(d.Auth.Secret(), d.Auth.Revocations(), d.Log)

	// Auth routes
	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", RegisterHandler(d))                   // Registration endpoint
	authGroup.POST("/login", LoginHandler(d))                         // Login endpoint
	authGroup.POST("/verify", VerifyHandler(d))                       // Token verification endpoint
	authGroup.POST("/reset-password", ResetPasswordHandler(d))        // Password reset request
	authGroup.POST("/reset-password/confirm", ConfirmResetHandler(d)) // Password reset confirmation
	authGroup.POST("/logout", requireAuth, LogoutHandler(d))          // Logout endpoint
	authGroup.GET("/profile", requireAuth, GetProfileHandler(d))      // Profile endpoint
	authGroup.PUT("/profile", requireAuth, UpdateProfileHandler(d))   // Profile update endpoint

	// Everything below requires a valid token
	apiGroup := r.Group("/api")
	apiGroup.Use(requireAuth)

	apiGroup.GET("/cases", ListCasesHandler(d))
	apiGroup.GET("/cases/:id", GetCaseHandler(d))
	apiGroup.POST("/cases", CreateCaseHandler(d))
	apiGroup.PUT("/cases/:id", UpdateCaseHandler(d))
	apiGroup.DELETE("/cases/:id", DeleteCaseHandler(d))

	apiGroup.GET("/clients", ListClientsHandler(d))
	apiGroup.GET("/clients/:id", GetClientHandler(d))
	apiGroup.POST("/clients", CreateClientHandler(d))
	apiGroup.PUT("/clients/:id", UpdateClientHandler(d))
	apiGroup.DELETE("/clients/:id", DeleteClientHandler(d))

	apiGroup.GET("/documents", ListDocumentsHandler(d))
	apiGroup.POST("/documents", CreateDocumentHandler(d))
	apiGroup.POST("/documents/upload", UploadDocumentHandler(d))
	apiGroup.GET("/documents/:id", GetDocumentHandler(d))
	apiGroup.GET("/documents/:id/file", DownloadDocumentHandler(d))
	apiGroup.PUT("/documents/:id", UpdateDocumentHandler(d))
	apiGroup.DELETE("/documents/:id", DeleteDocumentHandler(d))

	apiGroup.GET("/tasks", ListTasksHandler(d))
	apiGroup.GET("/tasks/:id", GetTaskHandler(d))
	apiGroup.POST("/tasks", CreateTaskHandler(d))
	apiGroup.PUT("/tasks/:id", UpdateTaskHandler(d))
	apiGroup.DELETE("/tasks/:id", DeleteTaskHandler(d))

	// Self-service account routes, :id must be the caller
	apiGroup.POST("/users/:id/change-password", ChangePasswordHandler(d))
	apiGroup.POST("/users/:id/change-email", ChangeEmailHandler(d))
	apiGroup.PUT("/users/:id/profile", UpdateUserProfileHandler(d))

	// Admin routes (protected, admin only)
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(middleware.AdminOnlyMiddleware(d.Users))
	adminGroup.GET("/users", ListUsersHandler(d)) // List users endpoint

	return r
}
