package store

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"legal_practice/internal/apperrors"
	"legal_practice/internal/domain"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() (logrus.FieldLogger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logger, hook
}

func TestBuildUserDerivesNamesAndHashes(t *testing.T) {
	u, err := BuildUser(domain.NewUser{
		Email:       "  Jane.Doe@Firm.TEST ",
		Password:    "s3cret-pass",
		DisplayName: "Jane Q Doe",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@firm.test", u.Email)
	assert.Equal(t, "Jane", u.FirstName)
	assert.Equal(t, "Q Doe", u.LastName)
	assert.Equal(t, domain.RoleLawyer, u.Role)
	assert.NotEqual(t, "s3cret-pass", u.Password)
	assert.True(t, VerifyPassword(u, "s3cret-pass"))
	assert.False(t, VerifyPassword(u, "wrong-pass"))
	assert.Equal(t, now, u.CreatedAt)
}

func TestBuildUserFallsBackToEmailLocalPart(t *testing.T) {
	u, err := BuildUser(domain.NewUser{Email: "counsel@firm.test", Password: "pw", Role: "superuser"}, now)
	require.NoError(t, err)
	assert.Equal(t, "counsel", u.FirstName)
	assert.Equal(t, "", u.LastName)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestBuildUserRequiresEmailAndPassword(t *testing.T) {
	_, err := BuildUser(domain.NewUser{Email: "a@b.test"}, now)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Equal(t, "Email and password are required", appErr.Message)
	assert.Contains(t, appErr.Fields, "password")
}

func TestBuildCaseRequiresClient(t *testing.T) {
	owner := bson.NewObjectID()
	_, err := BuildCase(domain.NewCase{OwnerID: owner, Title: "Smith v. Jones"}, now)
	require.Error(t, err)
	appErr, _ := apperrors.As(err)
	assert.Equal(t, "Client is required", appErr.Message)
	assert.Equal(t, 400, appErr.HTTPStatus())

	_, err = BuildCase(domain.NewCase{OwnerID: owner, Title: "Smith v. Jones", ClientRef: "not-an-id"}, now)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestBuildCaseDefaultsStatus(t *testing.T) {
	client := bson.NewObjectID()
	c, err := BuildCase(domain.NewCase{OwnerID: bson.NewObjectID(), Title: "Estate", ClientRef: client.Hex()}, now)
	require.NoError(t, err)
	assert.Equal(t, domain.CaseActive, c.Status)
	assert.Equal(t, client, c.Client)

	_, err = BuildCase(domain.NewCase{OwnerID: bson.NewObjectID(), Title: "Estate", ClientRef: client.Hex(), Status: "archived"}, now)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestBuildDocumentFallbacks(t *testing.T) {
	log, _ := quietLogger()
	d, err := BuildDocument(domain.NewDocument{OwnerID: bson.NewObjectID()}, now, log)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDocumentTitle, d.Title)
	assert.Equal(t, domain.DefaultDocumentURL, d.FileURL)
	assert.Equal(t, domain.DefaultDocumentType, d.FileType)
	assert.Equal(t, []string{}, d.Tags)
	assert.Nil(t, d.CaseID)
}

func TestBuildDocumentKeepsBadReferencesAsTags(t *testing.T) {
	log, hook := quietLogger()
	d, err := BuildDocument(domain.NewDocument{
		OwnerID:   bson.NewObjectID(),
		Title:     "Retainer",
		CaseLabel: "Probate 2024",
		ClientRef: "acme",
		Tags:      []string{"signed", "signed", " "},
	}, now, log)
	require.NoError(t, err)

	assert.Nil(t, d.CaseID)
	assert.Nil(t, d.ClientID)
	assert.Equal(t, []string{"signed", "case:Probate 2024", "client:acme"}, d.Tags)
	assert.Len(t, hook.AllEntries(), 2)
}

func TestBuildDocumentCaseReferences(t *testing.T) {
	log, hook := quietLogger()
	caseID := bson.NewObjectID()

	d, err := BuildDocument(domain.NewDocument{OwnerID: bson.NewObjectID(), CaseLabel: domain.UnassignedCase}, now, log)
	require.NoError(t, err)
	assert.Nil(t, d.CaseID)
	assert.Empty(t, d.Tags)

	d, err = BuildDocument(domain.NewDocument{OwnerID: bson.NewObjectID(), CaseLabel: caseID.Hex()}, now, log)
	require.NoError(t, err)
	require.NotNil(t, d.CaseID)
	assert.Equal(t, caseID, *d.CaseID)

	d, err = BuildDocument(domain.NewDocument{OwnerID: bson.NewObjectID(), CaseRef: caseID.Hex(), CaseLabel: "ignored"}, now, log)
	require.NoError(t, err)
	assert.Equal(t, caseID, *d.CaseID)
	assert.Empty(t, d.Tags)
	assert.Empty(t, hook.AllEntries())
}

func TestBuildTaskNormalizes(t *testing.T) {
	log, hook := quietLogger()
	tk, err := BuildTask(domain.NewTask{
		OwnerID:     bson.NewObjectID(),
		Title:       "File motion",
		Description: "Draft and file",
		Status:      "In Progress",
		Priority:    "URGENT",
		CaseRef:     "bogus",
	}, now, log)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskInProgress, tk.Status)
	assert.Equal(t, domain.PriorityUrgent, tk.Priority)
	assert.Equal(t, 4, tk.PriorityRank)
	assert.Equal(t, "Draft and file", tk.Notes)
	assert.Nil(t, tk.CaseID)
	assert.Len(t, hook.AllEntries(), 1)

	tk, err = BuildTask(domain.NewTask{OwnerID: bson.NewObjectID(), Title: "Call", Status: "someday", Priority: "whenever"}, now, log)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, tk.Status)
	assert.Equal(t, domain.PriorityMedium, tk.Priority)

	_, err = BuildTask(domain.NewTask{OwnerID: bson.NewObjectID()}, now, log)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestTaskChangesKeepRankInStep(t *testing.T) {
	log, _ := quietLogger()
	high := "High"
	caseRef := ""
	update, err := TaskChanges(domain.TaskPatch{Priority: &high, CaseRef: &caseRef}, now, log)
	require.NoError(t, err)

	set := update["$set"].(bson.M)
	assert.Equal(t, domain.PriorityHigh, set["priority"])
	assert.Equal(t, 3, set["priorityRank"])
	assert.Equal(t, now, set["updatedAt"])
	assert.Contains(t, update["$unset"].(bson.M), "caseId")
}

func TestChangesRejectBlankRequiredFields(t *testing.T) {
	blank := "  "
	_, err := CaseChanges(domain.CasePatch{Title: &blank}, now)
	require.Error(t, err)
	appErr, _ := apperrors.As(err)
	assert.Equal(t, "Title is required", appErr.Message)

	bad := "archived"
	_, err = CaseChanges(domain.CasePatch{Status: &bad}, now)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestUserChangesHashPassword(t *testing.T) {
	pw := "n3w-password"
	email := " NEW@Firm.test"
	update, err := UserChanges(domain.UserPatch{Password: &pw, Email: &email}, now)
	require.NoError(t, err)
	set := update["$set"].(bson.M)
	assert.Equal(t, "new@firm.test", set["email"])
	assert.True(t, VerifyPassword(&domain.User{Password: set["password"].(string)}, pw))
}

func TestApplyUpdate(t *testing.T) {
	log, _ := quietLogger()
	caseID := bson.NewObjectID()
	doc := domain.Document{
		ID:     bson.NewObjectID(),
		Title:  "Old",
		CaseID: &caseID,
		Tags:   []string{"a"},
	}
	title := "New"
	unassigned := domain.UnassignedCase
	tags := []string{"b", "b", "c"}
	update, err := DocumentChanges(domain.DocumentPatch{Title: &title, CaseRef: &unassigned, Tags: &tags}, now, log)
	require.NoError(t, err)

	require.NoError(t, ApplyUpdate(&doc, update))
	assert.Equal(t, "New", doc.Title)
	assert.Nil(t, doc.CaseID)
	assert.Equal(t, []string{"b", "c"}, doc.Tags)
	assert.True(t, now.Equal(doc.UpdatedAt))
}

func TestLookupOneMatchesOwner(t *testing.T) {
	owner := bson.NewObjectID()
	stages := lookupOne("clients", "clientId", "clientInfo", owner)
	require.Len(t, stages, 2)

	lookup := stages[0][0].Value.(bson.D)
	var pipeline mongo.Pipeline
	for _, e := range lookup {
		if e.Key == "pipeline" {
			pipeline = e.Value.(mongo.Pipeline)
		}
	}
	require.Len(t, pipeline, 1)
	match := pipeline[0][0].Value.(bson.D)
	expr := match[0].Value.(bson.D)
	conds := expr[0].Value.(bson.A)
	require.Len(t, conds, 2)
	assert.Equal(t, bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$ref"}}}, conds[0])
	assert.Equal(t, bson.D{{Key: "$eq", Value: bson.A{"$userId", owner}}}, conds[1])
}
