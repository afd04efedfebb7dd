package api

import (
	"net/http" // HTTP status codes
	"time"     // Token expiry from context

	"legal_practice/internal/audit"      // Audit events
	"legal_practice/internal/middleware" // Context keys
	"legal_practice/internal/wire"       // JSON shapes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  wire.AuthUser `json:"user"`  // Account summary
	Token string        `json:"token"` // JWT token
}

// VerifyRequest carries a token to check
type VerifyRequest struct {
	Token string `json:"token"`
}

// ResetRequest starts a password reset
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetConfirmRequest finishes a password reset
type ResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// RegisterHandler creates an account and returns it with a token
func RegisterHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wire.RegisterInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to register user")
			return
		}
		// Credentials and both names are required over HTTP
		if err := req.Validate(); err != nil {
			respondError(c, d.Log, err, "Failed to register user")
			return
		}
		// Create the account; missing fields and taken emails come back typed
		user, token, err := d.Auth.Register(c.Request.Context(), req.ToNew())
		if err != nil {
			respondError(c, d.Log, err, "Failed to register user")
			return
		}
		record(c.Request.Context(), d, audit.Event{UserID: user.ID.Hex(), Action: audit.ActionRegister, Entity: "user", EntityID: user.ID.Hex()})
		d.Log.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "role": user.Role}).Info("User registered")
		c.JSON(http.StatusCreated, AuthResponse{User: wire.FromAuthUser(user), Token: token})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wire.LoginInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required", "message": "Email and password are required"})
			return
		}
		user, token, err := d.Auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, d.Log, err, "An error occurred during login")
			return
		}
		record(c.Request.Context(), d, audit.Event{UserID: user.ID.Hex(), Action: audit.ActionLogin, Entity: "user", EntityID: user.ID.Hex()})
		c.JSON(http.StatusOK, AuthResponse{User: wire.FromAuthUser(user), Token: token})
	}
}

// VerifyHandler resolves a token to its account
func VerifyHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to verify token")
			return
		}
		user, _, err := d.Auth.Verify(c.Request.Context(), req.Token)
		if err != nil {
			respondError(c, d.Log, err, "Failed to verify token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": wire.FromAuthUser(user)})
	}
}

// LogoutHandler revokes the presented token
func LogoutHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		expiry, _ := c.Get(middleware.CtxTokenExpiry)
		expiresAt, _ := expiry.(time.Time)
		if err := d.Auth.Logout(c.Request.Context(), c.GetString(middleware.CtxTokenID), expiresAt); err != nil {
			respondError(c, d.Log, err, "Failed to log out")
			return
		}
		record(c.Request.Context(), d, audit.Event{UserID: owner.Hex(), Action: audit.ActionLogout, Entity: "user", EntityID: owner.Hex()})
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// GetProfileHandler returns the caller's full profile
func GetProfileHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		user, err := d.Users.FindByID(c.Request.Context(), owner)
		if err != nil {
			respondError(c, d.Log, err, "Failed to fetch profile")
			return
		}
		c.JSON(http.StatusOK, wire.FromUser(user))
	}
}

// UpdateProfileHandler edits the caller's profile fields
func UpdateProfileHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		var req wire.ProfileInput
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to update profile")
			return
		}
		user, err := d.Users.Update(c.Request.Context(), owner, req.ToPatch())
		if err != nil {
			respondError(c, d.Log, err, "Failed to update profile")
			return
		}
		record(c.Request.Context(), d, audit.Event{UserID: owner.Hex(), Action: audit.ActionProfileUpdate, Entity: "user", EntityID: owner.Hex()})
		c.JSON(http.StatusOK, wire.FromUser(user))
	}
}

// resetMessage is returned whether or not the email is registered
const resetMessage = "If your email is registered, you will receive a password reset link"

// ResetPasswordHandler issues a reset token without disclosing whether the email exists
func ResetPasswordHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to process reset password request")
			return
		}
		if _, err := d.Auth.RequestReset(c.Request.Context(), req.Email); err != nil {
			respondError(c, d.Log, err, "Failed to process reset password request")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": resetMessage})
	}
}

// ConfirmResetHandler sets a new password from a reset token
func ConfirmResetHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetConfirmRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to reset password")
			return
		}
		user, err := d.Auth.ConfirmReset(c.Request.Context(), req.Token, req.NewPassword)
		if err != nil {
			respondError(c, d.Log, err, "Failed to reset password")
			return
		}
		record(c.Request.Context(), d, audit.Event{UserID: user.ID.Hex(), Action: audit.ActionPasswordReset, Entity: "user", EntityID: user.ID.Hex()})
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password has been reset"})
	}
}
