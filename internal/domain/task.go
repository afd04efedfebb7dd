package domain

import (
	"strings" // String helpers
	"time"    // Timestamps

	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

// TaskStatus is the progress state of a task
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskPriority orders tasks sharing a due date
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

var priorityRanks = map[TaskPriority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
	PriorityUrgent: 4,
}

// enumKey folds case, spaces and underscores so "In Progress" matches "in-progress"
func enumKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	}), "-")
}

// NormalizeTaskStatus maps input to a status, unknown values become pending
func NormalizeTaskStatus(s string) TaskStatus {
	switch st := TaskStatus(enumKey(s)); st {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return st
	default:
		return TaskPending
	}
}

// NormalizeTaskPriority maps input to a priority, unknown values become medium
func NormalizeTaskPriority(s string) TaskPriority {
	p := TaskPriority(enumKey(s))
	if _, ok := priorityRanks[p]; ok {
		return p
	}
	return PriorityMedium
}

// Rank returns the ordering weight, higher is more pressing
func (p TaskPriority) Rank() int {
	return priorityRanks[p]
}

// Task Model
type Task struct {
	ID           bson.ObjectID  `bson:"_id,omitempty"`
	Title        string         `bson:"title"`
	Description  string         `bson:"description"`
	Status       TaskStatus     `bson:"status"`
	Priority     TaskPriority   `bson:"priority"`
	PriorityRank int            `bson:"priorityRank"` // Sort key, kept in step with Priority
	DueDate      *time.Time     `bson:"dueDate,omitempty"`
	CaseID       *bson.ObjectID `bson:"caseId,omitempty"`
	ClientID     *bson.ObjectID `bson:"clientId,omitempty"`
	Notes        string         `bson:"notes"`
	UserID       bson.ObjectID  `bson:"userId"`
	CreatedAt    time.Time      `bson:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt"`
}

// Validate checks required fields
func (t *Task) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(t.Title) == "" {
		fields["title"] = "Title is required"
	}
	if t.UserID.IsZero() {
		fields["userId"] = "Owner is required"
	}
	if len(fields) > 0 {
		return validationError("Task validation failed", fields)
	}
	return nil
}

// TaskView is a task with case and client expanded
type TaskView struct {
	Task       `bson:",inline"`
	CaseInfo   *CaseSummary   `bson:"caseInfo,omitempty"`
	ClientInfo *ClientSummary `bson:"clientInfo,omitempty"`
}

// NewTask is the input for task creation
type NewTask struct {
	OwnerID     bson.ObjectID
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	CaseRef     string
	ClientRef   string
	Notes       string
}

// TaskPatch holds optional task updates
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	CaseRef     *string
	ClientRef   *string
	Notes       *string
}
