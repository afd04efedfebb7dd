package api

import (
	"context"  // Cancellation and deadlines
	"net/http" // HTTP status codes

	"legal_practice/internal/apperrors" // Typed errors
	"legal_practice/internal/audit"     // Audit trail
	"legal_practice/internal/domain"    // Domain models
	"legal_practice/internal/wire"      // JSON shapes

	"github.com/gin-gonic/gin" // Gin web framework
)

const msgTaskNotFound = "Task not found"

// ListTasksHandler returns the caller's tasks by due date, then priority
func ListTasksHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		serveList(c, d, tasksList, owner, func(ctx context.Context) ([]wire.Task, error) {
			views, err := d.Tasks.ListForOwner(ctx, owner)
			if err != nil {
				return nil, err
			}
			return wire.Tasks(views), nil
		}, "Failed to fetch tasks")
	}
}

// GetTaskHandler returns one of the caller's tasks
func GetTaskHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id", msgTaskNotFound) // Parse path id
		if !ok {
			return
		}
		ctx := c.Request.Context()
		task, err := d.Tasks.FindByID(ctx, id)
		if err != nil {
			respondError(c, d.Log, err, "Failed to fetch task")
			return
		}
		// Other accounts' records look missing
		if !ownedOr404(c, owner, task.UserID, msgTaskNotFound) {
			return
		}
		view := domain.TaskView{
			Task:       *task,
			CaseInfo:   caseSummary(ctx, d, owner, task.CaseID),
			ClientInfo: clientSummary(ctx, d, owner, task.ClientID),
		}
		c.JSON(http.StatusOK, wire.FromTask(view))
	}
}

// CreateTaskHandler adds a task; status and priority are normalized by the store
func CreateTaskHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		var req wire.TaskInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			if appErr, ok := apperrors.As(err); ok && appErr.Fields["title"] != "" {
				appErr.Details = "Task creation requires a title field"
			}
			respondError(c, d.Log, err, "Failed to create task")
			return
		}
		n, err := req.ToNew(owner)
		if err != nil {
			respondError(c, d.Log, err, "Failed to create task")
			return
		}
		id, err := d.Tasks.Add(c.Request.Context(), n)
		if err != nil {
			respondError(c, d.Log, err, "Failed to create task")
			return
		}
		mutated(c, d, owner, audit.ActionCreate, "task", id) // Drop cached lists and record the change
		c.JSON(http.StatusCreated, gin.H{"id": wire.FormatID(id)})
	}
}

// UpdateTaskHandler applies a partial task update
func UpdateTaskHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id", msgTaskNotFound) // Parse path id
		if !ok {
			return
		}
		var req wire.TaskPatchInput // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to update task")
			return
		}
		patch, err := req.ToPatch()
		if err != nil {
			respondError(c, d.Log, err, "Failed to update task")
			return
		}
		ctx := c.Request.Context()
		task, err := d.Tasks.FindByID(ctx, id)
		if err != nil {
			respondError(c, d.Log, err, "Failed to update task")
			return
		}
		// Other accounts' records look missing
		if !ownedOr404(c, owner, task.UserID, msgTaskNotFound) {
			return
		}
		if err := d.Tasks.Update(ctx, id, patch); err != nil {
			respondError(c, d.Log, err, "Failed to update task")
			return
		}
		mutated(c, d, owner, audit.ActionUpdate, "task", id) // Drop cached lists and record the change
		c.JSON(http.StatusOK, gin.H{"success": true})        // Return success response
	}
}

// DeleteTaskHandler removes one of the caller's tasks
func DeleteTaskHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id", msgTaskNotFound) // Parse path id
		if !ok {
			return
		}
		ctx := c.Request.Context()
		task, err := d.Tasks.FindByID(ctx, id)
		if err != nil {
			respondError(c, d.Log, err, "Failed to delete task")
			return
		}
		// Other accounts' records look missing
		if !ownedOr404(c, owner, task.UserID, msgTaskNotFound) {
			return
		}
		if err := d.Tasks.Delete(ctx, id); err != nil {
			respondError(c, d.Log, err, "Failed to delete task")
			return
		}
		mutated(c, d, owner, audit.ActionDelete, "task", id) // Drop cached lists and record the change
		c.JSON(http.StatusOK, gin.H{"success": true})        // Return success response
	}
}
