package api

import (
	"context"  // Cancellation and deadlines
	"net/http" // HTTP status codes

	"legal_practice/internal/audit" // Audit trail
	"legal_practice/internal/wire"  // JSON shapes

	"github.com/gin-gonic/gin" // Gin web framework
)

const msgClientNotFound = "Client not found"

// ListClientsHandler returns the caller's clients by name
func ListClientsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		serveList(c, d, clientsList, owner, func(ctx context.Context) ([]wire.Client, error) {
			clients, err := d.Clients.ListForOwner(ctx, owner)
			if err != nil {
				return nil, err
			}
			return wire.Clients(clients), nil
		}, "Failed to fetch clients")
	}
}

// GetClientHandler returns one of the caller's clients
func GetClientHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id", msgClientNotFound) // Parse path id
		if !ok {
			return
		}
		cl, err := d.Clients.FindByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, d.Log, err, "Failed to fetch client")
			return
		}
		// Other accounts' records look missing
		if !ownedOr404(c, owner, cl.UserID, msgClientNotFound) {
			return
		}
		c.JSON(http.StatusOK, wire.FromClient(*cl))
	}
}

// CreateClientHandler stores a new client for the caller
func CreateClientHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		var req wire.ClientInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to create client")
			return
		}
		id, err := d.Clients.Add(c.Request.Context(), req.ToNew(owner))
		if err != nil {
			respondError(c, d.Log, err, "Failed to create client")
			return
		}
		mutated(c, d, owner, audit.ActionCreate, "client", id) // Drop cached lists and record the change
		c.JSON(http.StatusCreated, gin.H{"id": wire.FormatID(id)})
	}
}

// UpdateClientHandler applies a partial client update
func UpdateClientHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id", msgClientNotFound) // Parse path id
		if !ok {
			return
		}
		var req wire.ClientPatchInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to update client")
			return
		}
		ctx := c.Request.Context()
		cl, err := d.Clients.FindByID(ctx, id)
		if err != nil {
			respondError(c, d.Log, err, "Failed to update client")
			return
		}
		// Other accounts' records look missing
		if !ownedOr404(c, owner, cl.UserID, msgClientNotFound) {
			return
		}
		if err := d.Clients.Update(ctx, id, req.ToPatch()); err != nil {
			respondError(c, d.Log, err, "Failed to update client")
			return
		}
		mutated(c, d, owner, audit.ActionUpdate, "client", id) // Drop cached lists and record the change
		c.JSON(http.StatusOK, gin.H{"success": true})          // Return success response
	}
}

// DeleteClientHandler removes an owned client without touching its cases, documents or tasks
func DeleteClientHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id", msgClientNotFound) // Parse path id
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cl, err := d.Clients.FindByID(ctx, id)
		if err != nil {
			respondError(c, d.Log, err, "Failed to delete client")
			return
		}
		// Other accounts' records look missing
		if !ownedOr404(c, owner, cl.UserID, msgClientNotFound) {
			return
		}
		if err := d.Clients.Delete(ctx, id); err != nil {
			respondError(c, d.Log, err, "Failed to delete client")
			return
		}
		mutated(c, d, owner, audit.ActionDelete, "client", id) // Drop cached lists and record the change
		c.JSON(http.StatusOK, gin.H{"success": true})          // Return success response
	}
}
