package api

import (
	"context"  // Context for store calls
	"net/http" // HTTP status codes

	"legal_practice/internal/apperrors" // Error taxonomy
	"legal_practice/internal/audit"     // Audit actions
	"legal_practice/internal/domain"    // Domain models
	"legal_practice/internal/wire"      // JSON shapes

	"github.com/gin-gonic/gin" // Gin web framework
)

const msgCaseNotFound = "Case not found"

// ListCasesHandler returns the caller's cases, newest first
func ListCasesHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		serveList(c, d, casesList, owner, func(ctx context.Context) ([]wire.Case, error) {
			views, err := d.Cases.ListForOwner(ctx, owner)
			if err != nil {
				return nil, err
			}
			return wire.Cases(views), nil
		}, "Failed to fetch cases")
	}
}

// GetCaseHandler returns one case with its client
func GetCaseHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id", msgCaseNotFound)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cs, err := d.Cases.FindByID(ctx, id)
		if err != nil {
			respondError(c, d.Log, err, "Failed to fetch case")
			return
		}
		if !ownedOr404(c, owner, cs.UserID, msgCaseNotFound) {
			return
		}
		clientID := cs.Client
		view := domain.CaseView{Case: *cs, ClientInfo: clientSummary(ctx, d, owner, &clientID)}
		c.JSON(http.StatusOK, wire.FromCase(view))
	}
}

// CreateCaseHandler adds a case; the client reference is required
func CreateCaseHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		var req wire.CaseInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			if appErr, ok := apperrors.As(err); ok && appErr.Fields["client"] != "" {
				appErr.Message = appErr.Fields["client"]
				appErr.Details = "Case creation requires a client field with a valid client ID"
			}
			respondError(c, d.Log, err, "Failed to create case")
			return
		}
		n, err := req.ToNew(owner)
		if err != nil {
			respondError(c, d.Log, err, "Failed to create case")
			return
		}
		id, err := d.Cases.Add(c.Request.Context(), n)
		if err != nil {
			respondError(c, d.Log, err, "Failed to create case")
			return
		}
		mutated(c, d, owner, audit.ActionCreate, "case", id)
		c.JSON(http.StatusCreated, gin.H{"id": wire.FormatID(id)})
	}
}

// UpdateCaseHandler applies a partial update to an owned case
func UpdateCaseHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id", msgCaseNotFound)
		if !ok {
			return
		}
		var req wire.CasePatchInput
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to update case")
			return
		}
		patch, err := req.ToPatch()
		if err != nil {
			respondError(c, d.Log, err, "Failed to update case")
			return
		}
		ctx := c.Request.Context()
		cs, err := d.Cases.FindByID(ctx, id)
		if err != nil {
			respondError(c, d.Log, err, "Failed to update case")
			return
		}
		if !ownedOr404(c, owner, cs.UserID, msgCaseNotFound) {
			return
		}
		if err := d.Cases.Update(ctx, id, patch); err != nil {
			respondError(c, d.Log, err, "Failed to update case")
			return
		}
		mutated(c, d, owner, audit.ActionUpdate, "case", id)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// DeleteCaseHandler removes an owned case; documents and tasks keep their reference
func DeleteCaseHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id", msgCaseNotFound)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cs, err := d.Cases.FindByID(ctx, id)
		if err != nil {
			respondError(c, d.Log, err, "Failed to delete case")
			return
		}
		if !ownedOr404(c, owner, cs.UserID, msgCaseNotFound) {
			return
		}
		if err := d.Cases.Delete(ctx, id); err != nil {
			respondError(c, d.Log, err, "Failed to delete case")
			return
		}
		mutated(c, d, owner, audit.ActionDelete, "case", id)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
