package domain

import (
	"strings" // String manipulation
	"time"    // Timestamps

	"go.mongodb.org/mongo-driver/v2/bson" // ObjectID type
)

// CaseStatus is the lifecycle state of a case
type CaseStatus string

const (
	CaseActive  CaseStatus = "active"  // Default
	CasePending CaseStatus = "pending" // Awaiting action
	CaseClosed  CaseStatus = "closed"  // Closed without verdict
	CaseWon     CaseStatus = "won"     // Verdict in favour
	CaseLost    CaseStatus = "lost"    // Verdict against
)

// ParseCaseStatus maps input case-insensitively; empty means active
func ParseCaseStatus(s string) (CaseStatus, bool) {
	switch st := CaseStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return CaseActive, true
	case CaseActive, CasePending, CaseClosed, CaseWon, CaseLost:
		return st, true
	default:
		return "", false
	}
}

// Case Model
type Case struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	Description string        `bson:"description,omitempty"`
	CaseNumber  string        `bson:"caseNumber,omitempty"`
	Court       string        `bson:"court,omitempty"`
	Status      CaseStatus    `bson:"status"`
	Client      bson.ObjectID `bson:"client"` // Required reference to a Client
	UserID      bson.ObjectID `bson:"userId"` // Owning account
	FilingDate  *time.Time    `bson:"filingDate,omitempty"`
	HearingDate *time.Time    `bson:"hearingDate,omitempty"`
	Notes       string        `bson:"notes,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

// Validate checks required fields and the status enum
func (c *Case) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(c.Title) == "" {
		fields["title"] = "Title is required"
	}
	if c.Client.IsZero() {
		fields["client"] = "Client is required"
	}
	if c.UserID.IsZero() {
		fields["userId"] = "Owner is required"
	}
	if _, ok := ParseCaseStatus(string(c.Status)); !ok {
		fields["status"] = "Status must be one of active, pending, closed, won, lost"
	}
	if len(fields) > 0 {
		return validationError("Case validation failed", fields)
	}
	return nil
}

// ClientSummary is the populated view of a referenced client
type ClientSummary struct {
	ID    bson.ObjectID `bson:"_id"`
	Name  string        `bson:"name"`
	Email string        `bson:"email,omitempty"`
}

// CaseView is a case with its client expanded
type CaseView struct {
	Case       `bson:",inline"`
	ClientInfo *ClientSummary `bson:"clientInfo,omitempty"` // Nil when the client was deleted
}

// NewCase is the input for case creation, references still in wire form
type NewCase struct {
	OwnerID     bson.ObjectID
	Title       string
	Description string
	CaseNumber  string
	Court       string
	Status      string
	ClientRef   string // Client id as sent by the caller
	FilingDate  *time.Time
	HearingDate *time.Time
	Notes       string
}

// CasePatch holds optional case updates
type CasePatch struct {
	Title       *string
	Description *string
	CaseNumber  *string
	Court       *string
	Status      *string
	ClientRef   *string
	FilingDate  *time.Time
	HearingDate *time.Time
	Notes       *string
}
