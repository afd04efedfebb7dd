package domain

import (
	"testing"

	"legal_practice/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleLawyer, ParseRole(""))
	assert.Equal(t, RoleClient, ParseRole("client"))
	assert.Equal(t, RoleAdmin, ParseRole("Admin"))
	assert.Equal(t, RoleAdmin, ParseRole("paralegal")) // Unknown roles are coerced to admin
}

func TestNormalizeTaskStatus(t *testing.T) {
	cases := map[string]TaskStatus{
		"In Progress": TaskInProgress,
		"in-progress": TaskInProgress,
		"IN_PROGRESS": TaskInProgress,
		"Completed":   TaskCompleted,
		"cancelled":   TaskCancelled,
		"":            TaskPending,
		"someday":     TaskPending,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTaskStatus(in), in)
	}
}

func TestNormalizeTaskPriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, NormalizeTaskPriority("HIGH"))
	assert.Equal(t, PriorityUrgent, NormalizeTaskPriority(" urgent "))
	assert.Equal(t, PriorityMedium, NormalizeTaskPriority("critical"))
	assert.Greater(t, PriorityUrgent.Rank(), PriorityHigh.Rank())
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
}

func TestNewUserNormalizeDerivesNames(t *testing.T) {
	n := NewUser{Email: "  Jane.Doe@Firm.com ", Password: "p", DisplayName: "Jane Q Doe"}
	n.Normalize()

	assert.Equal(t, "jane.doe@firm.com", n.Email)
	assert.Equal(t, "Jane", n.FirstName)
	assert.Equal(t, "Q Doe", n.LastName)
	assert.Equal(t, string(RoleLawyer), n.Role)

	n = NewUser{Email: "solo@firm.com", Password: "p", Role: "wizard"}
	n.Normalize()
	assert.Equal(t, "solo", n.FirstName)
	assert.Equal(t, "", n.LastName)
	assert.Equal(t, string(RoleAdmin), n.Role)
}

func TestNewUserValidate(t *testing.T) {
	n := NewUser{}
	err := n.Validate()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Email and password are required", appErr.Message)
	assert.Len(t, appErr.Fields, 2)
}

func TestCaseValidateRequiresClient(t *testing.T) {
	c := Case{Title: "Smith v. Jones", Status: CaseActive, UserID: bson.NewObjectID()}
	err := c.Validate()
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Equal(t, "Client is required", appErr.Message)

	c.Client = bson.NewObjectID()
	assert.NoError(t, c.Validate())

	c.Status = "archived"
	assert.Error(t, c.Validate())
}

func TestDocumentAddTagDeduplicates(t *testing.T) {
	d := Document{}
	d.AddTag("case:Estate")
	d.AddTag("case:Estate")
	assert.Equal(t, []string{"case:Estate"}, d.Tags)
}
