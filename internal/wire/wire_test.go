package wire

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"legal_practice/internal/apperrors"
	"legal_practice/internal/domain"
)

func TestIDRoundTrip(t *testing.T) {
	id := bson.NewObjectID()

	got, ok := ParseRef(FormatID(id))
	require.True(t, ok)
	assert.Equal(t, id, got)

	got, ok = ParseRef("  " + id.Hex() + "\n")
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestParseRefRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "Unassigned", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, ok := ParseRef(in)
		assert.False(t, ok, in)
		assert.Nil(t, ParseOptionalRef(in), in)
	}
	assert.Equal(t, "", FormatID(bson.NilObjectID))
	assert.Nil(t, FormatOptionalID(nil))
}

func TestTimeRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.UTC)

	s := FormatTime(at)
	assert.Equal(t, "2024-03-09T14:05:07.123Z", s)

	parsed, err := ParseOptionalTime(s)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, at.Equal(*parsed))
}

func TestFormatTimeConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, loc)
	assert.Equal(t, "2024-03-09T04:30:00.000Z", FormatTime(at))
}

func TestParseOptionalTimeFormats(t *testing.T) {
	d, err := ParseOptionalTime("2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), *d)

	d, err = ParseOptionalTime("2025-01-31T09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, d.Hour())

	d, err = ParseOptionalTime("")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseOptionalTime("next tuesday")
	assert.Error(t, err)
}

func TestFromUserOmitsPassword(t *testing.T) {
	u := &domain.User{
		ID:        bson.NewObjectID(),
		Email:     "ada@firm.test",
		FirstName: "Ada",
		Password:  "$2a$10$hash",
	}

	out, err := json.Marshal(FromUser(u))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "password")
	assert.NotContains(t, string(out), "$2a$")

	short := FromAuthUser(u)
	assert.Equal(t, "lawyer", short.UserType)
	assert.Equal(t, u.ID.Hex(), short.ID)
}

func TestFromCaseKeepsDanglingClient(t *testing.T) {
	clientID := bson.NewObjectID()
	v := domain.CaseView{Case: domain.Case{
		ID:     bson.NewObjectID(),
		Title:  "Estate of Doe",
		Status: domain.CaseActive,
		Client: clientID,
	}}

	c := FromCase(v)
	assert.Equal(t, clientID.Hex(), c.ClientID)
	assert.Nil(t, c.Client)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"client":null`)
}

func TestFromDocumentPopulatesSummaries(t *testing.T) {
	caseID := bson.NewObjectID()
	v := domain.DocumentView{
		Document: domain.Document{ID: bson.NewObjectID(), Title: "Brief", CaseID: &caseID},
		CaseInfo: &domain.CaseSummary{ID: caseID, Title: "Estate of Doe"},
	}

	d := FromDocument(v)
	require.NotNil(t, d.CaseID)
	assert.Equal(t, caseID.Hex(), *d.CaseID)
	require.NotNil(t, d.Case)
	assert.Equal(t, "Estate of Doe", d.Case.Title)
	assert.Nil(t, d.ClientID)
	assert.Equal(t, []string{}, d.Tags)
}

func TestListConvertersNeverNil(t *testing.T) {
	assert.NotNil(t, Cases(nil))
	assert.NotNil(t, Clients(nil))
	assert.NotNil(t, Documents(nil))
	assert.NotNil(t, Tasks(nil))
}

func TestDocumentInputPrefersNameAndSize(t *testing.T) {
	size, fileSize := int64(42), int64(7)
	n := DocumentInput{Name: "Lease", Title: "ignored", URL: "", FileURL: "/f.pdf", Size: &size, FileSize: &fileSize}.ToNew(bson.NewObjectID())

	assert.Equal(t, "Lease", n.Title)
	assert.Equal(t, "/f.pdf", n.FileURL)
	assert.Equal(t, int64(42), n.FileSize)

	n = DocumentInput{FileSize: &fileSize}.ToNew(bson.NewObjectID())
	assert.Equal(t, int64(7), n.FileSize)
}

func TestCaseInputRejectsBadDates(t *testing.T) {
	_, err := CaseInput{Title: "t", Client: "c", FilingDate: "someday"}.ToNew(bson.NewObjectID())
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "filingDate")

	n, err := CaseInput{Title: "t", Client: "c", HearingDate: "2024-05-01"}.ToNew(bson.NewObjectID())
	require.NoError(t, err)
	require.NotNil(t, n.HearingDate)
	assert.Nil(t, n.FilingDate)
}

func TestTaskPatchInputBlankDateLeavesDueDate(t *testing.T) {
	blank := " "
	p, err := TaskPatchInput{DueDate: &blank}.ToPatch()
	require.NoError(t, err)
	assert.Nil(t, p.DueDate)
}

func TestFromDocumentServesUploadsThroughAPI(t *testing.T) {
	id := bson.NewObjectID()
	d := FromDocument(domain.DocumentView{Document: domain.Document{ID: id, FileURL: "placeholder-url", StorageKey: "ab/ab12_brief.pdf"}})
	assert.Equal(t, "/api/documents/"+id.Hex()+"/file", d.FileURL)

	d = FromDocument(domain.DocumentView{Document: domain.Document{ID: id, FileURL: "https://files.example/brief.pdf"}})
	assert.Equal(t, "https://files.example/brief.pdf", d.FileURL)
}

func TestRegisterInputValidate(t *testing.T) {
	err := RegisterInput{FirstName: "Ada", LastName: "L"}.Validate()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Email and password are required", appErr.Message)

	err = RegisterInput{Email: "ada@firm.test", Password: "pw", LastName: "L"}.Validate()
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "First name and last name are required", appErr.Message)
	assert.Equal(t, map[string]string{"firstName": "First name is required"}, appErr.Fields)

	assert.NoError(t, RegisterInput{Email: "ada@firm.test", Password: "pw", FirstName: "Ada", LastName: "L"}.Validate())
}
