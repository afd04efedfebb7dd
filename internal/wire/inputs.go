package wire

import (
	"strings" // String helpers
	"time"    // Timestamps

	"legal_practice/internal/apperrors" // Typed errors
	"legal_practice/internal/domain"    // Domain models

	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

// RegisterInput is the registration body
type RegisterInput struct {
	Email            string `json:"email"`            // Login email
	Password         string `json:"password"`         // Plaintext, hashed before storage
	FirstName        string `json:"firstName"`        // Required over HTTP
	LastName         string `json:"lastName"`         // Required over HTTP
	DisplayName      string `json:"displayName"`      // Optional display name
	PhotoURL         string `json:"photoURL"`         // Avatar URL
	Phone            string `json:"phone"`            // Contact phone
	Address          string `json:"address"`          // Postal address
	Website          string `json:"website"`          // Practice website
	BarCouncilNumber string `json:"barCouncilNumber"` // Bar registration
	PracticeType     string `json:"practiceType"`     // Area of practice
	UserType         string `json:"userType"`         // Role; empty means lawyer
}

// Validate checks the fields the HTTP registration requires, credentials first
func (in RegisterInput) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Email) == "" {
		fields["email"] = "Email is required"
	}
	if in.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return apperrors.Validation("Email and password are required", fields).
			WithDetails("Registration requires both email and password fields")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		fields["firstName"] = "First name is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields["lastName"] = "Last name is required"
	}
	if len(fields) > 0 {
		return apperrors.Validation("First name and last name are required", fields).
			WithDetails("User registration requires both first name and last name fields")
	}
	return nil
}

// ToNew converts the body; names left blank are derived by the domain
func (in RegisterInput) ToNew() domain.NewUser {
	return domain.NewUser{
		Email:            in.Email,
		Password:         in.Password,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		DisplayName:      in.DisplayName,
		PhotoURL:         in.PhotoURL,
		Phone:            in.Phone,
		Address:          in.Address,
		Website:          in.Website,
		BarCouncilNumber: in.BarCouncilNumber,
		PracticeType:     in.PracticeType,
		Role:             in.UserType,
	}
}

// LoginInput is the login body
type LoginInput struct {
	Email    string `json:"email" binding:"required"`    // Login email
	Password string `json:"password" binding:"required"` // Plaintext password
}

// ProfileInput holds the profile fields an account may edit itself
type ProfileInput struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	DisplayName      *string `json:"displayName"`
	PhotoURL         *string `json:"photoURL"`
	Phone            *string `json:"phone"`
	Address          *string `json:"address"`
	Website          *string `json:"website"`
	BarCouncilNumber *string `json:"barCouncilNumber"`
	PracticeType     *string `json:"practiceType"`
}

// ToPatch keeps only the fields present in the request
func (in ProfileInput) ToPatch() domain.UserPatch {
	return domain.UserPatch{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		DisplayName:      in.DisplayName,
		PhotoURL:         in.PhotoURL,
		Phone:            in.Phone,
		Address:          in.Address,
		Website:          in.Website,
		BarCouncilNumber: in.BarCouncilNumber,
		PracticeType:     in.PracticeType,
	}
}

// CaseInput is the case creation body; client is the client id
type CaseInput struct {
	Client      string `json:"client" binding:"required"` // Client id
	Title       string `json:"title" binding:"required"`  // Case title
	Description string `json:"description"`               // Free text
	CaseNumber  string `json:"caseNumber"`                // Court reference
	Court       string `json:"court"`                     // Court name
	Status      string `json:"status"`                    // Case-insensitive status
	FilingDate  string `json:"filingDate"`                // ISO-8601 or YYYY-MM-DD
	HearingDate string `json:"hearingDate"`               // ISO-8601 or YYYY-MM-DD
	Notes       string `json:"notes"`                     // Free text
}

// ToNew resolves the client reference and parses the filing date
func (in CaseInput) ToNew(owner bson.ObjectID) (domain.NewCase, error) {
	dates := dateParser{}
	n := domain.NewCase{
		OwnerID:     owner,
		Title:       in.Title,
		Description: in.Description,
		CaseNumber:  in.CaseNumber,
		Court:       in.Court,
		Status:      in.Status,
		ClientRef:   in.Client,
		FilingDate:  dates.parse("filingDate", in.FilingDate), // Failures collected below
		HearingDate: dates.parse("hearingDate", in.HearingDate),
		Notes:       in.Notes,
	}
	return n, dates.err()
}

// CasePatchInput holds optional case updates
type CasePatchInput struct {
	Client      *string `json:"client"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CaseNumber  *string `json:"caseNumber"`
	Court       *string `json:"court"`
	Status      *string `json:"status"`
	FilingDate  *string `json:"filingDate"`
	HearingDate *string `json:"hearingDate"`
	Notes       *string `json:"notes"`
}

// ToPatch parses the fields present in the request
func (in CasePatchInput) ToPatch() (domain.CasePatch, error) {
	dates := dateParser{}
	p := domain.CasePatch{
		Title:       in.Title,
		Description: in.Description,
		CaseNumber:  in.CaseNumber,
		Court:       in.Court,
		Status:      in.Status,
		ClientRef:   in.Client,
		FilingDate:  dates.parsePtr("filingDate", in.FilingDate),
		HearingDate: dates.parsePtr("hearingDate", in.HearingDate),
		Notes:       in.Notes,
	}
	return p, dates.err()
}

// ClientInput is the client creation body
type ClientInput struct {
	Name    string `json:"name" binding:"required"` // Client name
	Email   string `json:"email"`                   // Optional contact email
	Phone   string `json:"phone"`                   // Contact phone
	Address string `json:"address"`                 // Postal address
	Company string `json:"company"`                 // Employer or firm
	Notes   string `json:"notes"`                   // Free text
}

// ToNew builds a client owned by owner
func (in ClientInput) ToNew(owner bson.ObjectID) domain.NewClient {
	return domain.NewClient{
		OwnerID: owner,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		Company: in.Company,
		Notes:   in.Notes,
	}
}

// ClientPatchInput holds optional client updates
type ClientPatchInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Company *string `json:"company"`
	Notes   *string `json:"notes"`
}

// ToPatch keeps only the fields present in the request
func (in ClientPatchInput) ToPatch() domain.ClientPatch {
	return domain.ClientPatch{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		Company: in.Company,
		Notes:   in.Notes,
	}
}

// DocumentInput is the document creation body. The SPA sends either the
// name/url/type/size spelling or the title/fileUrl/fileType/fileSize one.
type DocumentInput struct {
	Name        string   `json:"name"`                               // Preferred over Title
	Title       string   `json:"title"`                              // Document title
	Description string   `json:"description"`                        // Free text
	URL         string   `json:"url"`                                // Preferred over FileURL
	FileURL     string   `json:"fileUrl"`                            // Link to the file
	Type        string   `json:"type"`                               // Preferred over FileType
	FileType    string   `json:"fileType"`                           // MIME type
	Size        *int64   `json:"size" binding:"omitempty,gte=0"`     // Preferred over FileSize
	FileSize    *int64   `json:"fileSize" binding:"omitempty,gte=0"` // Bytes
	CaseID      string   `json:"caseId"`                             // Case id
	Case        string   `json:"case"`                               // Case id or free-form label
	ClientID    string   `json:"clientId"`                           // Client id
	Tags        []string `json:"tags"`                               // Free-form tags
}

// ToNew applies the title, file URL and case label fallbacks
func (in DocumentInput) ToNew(owner bson.ObjectID) domain.NewDocument {
	n := domain.NewDocument{
		OwnerID:     owner,
		Title:       firstNonBlank(in.Name, in.Title),
		Description: in.Description,
		FileURL:     firstNonBlank(in.URL, in.FileURL),
		FileType:    firstNonBlank(in.Type, in.FileType),
		CaseRef:     in.CaseID,
		CaseLabel:   in.Case,
		ClientRef:   in.ClientID,
		Tags:        in.Tags,
	}
	switch {
	case in.Size != nil:
		n.FileSize = *in.Size // Short spelling wins
	case in.FileSize != nil:
		n.FileSize = *in.FileSize
	}
	return n
}

// DocumentPatchInput holds optional document updates
type DocumentPatchInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	FileURL     *string   `json:"fileUrl"`
	FileType    *string   `json:"fileType"`
	FileSize    *int64    `json:"fileSize" binding:"omitempty,gte=0"`
	CaseID      *string   `json:"caseId"`
	ClientID    *string   `json:"clientId"`
	Tags        *[]string `json:"tags"`
}

// ToPatch keeps only the fields present in the request
func (in DocumentPatchInput) ToPatch() domain.DocumentPatch {
	return domain.DocumentPatch{
		Title:       in.Title,
		Description: in.Description,
		FileURL:     in.FileURL,
		FileType:    in.FileType,
		FileSize:    in.FileSize,
		CaseRef:     in.CaseID,
		ClientRef:   in.ClientID,
		Tags:        in.Tags,
	}
}

// TaskInput is the task creation body
type TaskInput struct {
	Title       string `json:"title" binding:"required"` // Task title
	Description string `json:"description"`              // Free text
	Status      string `json:"status"`                   // Normalized; unknown values become pending
	Priority    string `json:"priority"`                 // Normalized; unknown values become medium
	DueDate     string `json:"dueDate"`                  // ISO-8601 or YYYY-MM-DD
	CaseID      string `json:"caseId"`                   // Optional case id
	ClientID    string `json:"clientId"`                 // Optional client id
	Notes       string `json:"notes"`                    // Defaults to the description
}

// ToNew normalizes status and priority and parses the due date
func (in TaskInput) ToNew(owner bson.ObjectID) (domain.NewTask, error) {
	dates := dateParser{}
	n := domain.NewTask{
		OwnerID:     owner,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     dates.parse("dueDate", in.DueDate),
		CaseRef:     in.CaseID,
		ClientRef:   in.ClientID,
		Notes:       in.Notes,
	}
	return n, dates.err()
}

// TaskPatchInput holds optional task updates
type TaskPatchInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	CaseID      *string `json:"caseId"`
	ClientID    *string `json:"clientId"`
	Notes       *string `json:"notes"`
}

// ToPatch normalizes the fields present in the request
func (in TaskPatchInput) ToPatch() (domain.TaskPatch, error) {
	dates := dateParser{}
	p := domain.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     dates.parsePtr("dueDate", in.DueDate),
		CaseRef:     in.CaseID,
		ClientRef:   in.ClientID,
		Notes:       in.Notes,
	}
	return p, dates.err()
}

// dateParser collects date parse failures as field messages
type dateParser struct {
	fields map[string]string
}

// parse records a field failure and returns nil for an unparseable value
func (d *dateParser) parse(field, value string) *time.Time {
	t, err := ParseOptionalTime(value)
	if err != nil {
		if d.fields == nil {
			d.fields = map[string]string{}
		}
		d.fields[field] = "Invalid date: " + strings.TrimSpace(value)
		return nil
	}
	return t
}

// parsePtr treats nil and blank as "leave unchanged"
func (d *dateParser) parsePtr(field string, value *string) *time.Time {
	if value == nil {
		return nil
	}
	return d.parse(field, *value)
}

// err returns the collected failures as one validation error
func (d *dateParser) err() error {
	if len(d.fields) == 0 {
		return nil
	}
	if len(d.fields) == 1 {
		for field, msg := range d.fields {
			return apperrors.Validation(field+": "+msg, d.fields)
		}
	}
	return apperrors.Validation("Invalid date fields", d.fields)
}

// firstNonBlank returns the first value with content, trimmed
func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
