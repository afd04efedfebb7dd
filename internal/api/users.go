package api

import (
	"net/http" // HTTP status codes

	"legal_practice/internal/audit" // Audit trail
	"legal_practice/internal/wire"  // JSON shapes

	"github.com/gin-gonic/gin"            // Gin web framework
	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

// ChangePasswordRequest is the change-password body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"` // Must match the stored hash
	NewPassword     string `json:"newPassword"`     // Replacement password
}

// ChangeEmailRequest is the change-email body
type ChangeEmailRequest struct {
	Email string `json:"email" binding:"omitempty,email"` // New login email
}

// selfOnly answers 403 with msg unless :id is the caller
func selfOnly(c *gin.Context, msg string) (bson.ObjectID, bool) {
	owner, ok := currentUser(c)
	if !ok {
		return bson.NilObjectID, false
	}
	if c.Param("id") != owner.Hex() { // Path must name the caller
		c.JSON(http.StatusForbidden, gin.H{"error": msg, "message": msg})
		return bson.NilObjectID, false
	}
	return owner, true
}

// ChangePasswordHandler replaces the caller's password after checking the current one
func ChangePasswordHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := selfOnly(c, "You can only change your own password")
		if !ok {
			return
		}
		var req ChangePasswordRequest // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to change password")
			return
		}
		if err := d.Auth.ChangePassword(c.Request.Context(), owner, req.CurrentPassword, req.NewPassword); err != nil {
			respondError(c, d.Log, err, "Failed to change password")
			return
		}
		record(c.Request.Context(), d, audit.Event{UserID: owner.Hex(), Action: audit.ActionPasswordChange, Entity: "user", EntityID: owner.Hex()})
		c.JSON(http.StatusOK, gin.H{"success": true}) // Return success response
	}
}

// ChangeEmailHandler moves the caller to a new, unused email address
func ChangeEmailHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := selfOnly(c, "You can only change your own email")
		if !ok {
			return
		}
		var req ChangeEmailRequest // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to change email")
			return
		}
		user, err := d.Auth.ChangeEmail(c.Request.Context(), owner, req.Email) // Rejects an email held by another account
		if err != nil {
			respondError(c, d.Log, err, "Failed to change email")
			return
		}
		record(c.Request.Context(), d, audit.Event{UserID: owner.Hex(), Action: audit.ActionEmailChange, Entity: "user", EntityID: owner.Hex()})
		c.JSON(http.StatusOK, wire.FromAuthUser(user))
	}
}

// UpdateUserProfileHandler applies a partial profile update
func UpdateUserProfileHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := selfOnly(c, "You can only update your own profile")
		if !ok {
			return
		}
		var req wire.ProfileInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to update profile")
			return
		}
		user, err := d.Users.Update(c.Request.Context(), owner, req.ToPatch()) // Absent fields stay unchanged
		if err != nil {
			respondError(c, d.Log, err, "Failed to update profile")
			return
		}
		record(c.Request.Context(), d, audit.Event{UserID: owner.Hex(), Action: audit.ActionProfileUpdate, Entity: "user", EntityID: owner.Hex()})
		c.JSON(http.StatusOK, wire.FromAuthUser(user))
	}
}
