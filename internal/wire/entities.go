package wire

import (
	"legal_practice/internal/domain" // Domain models

	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

// AuthUser is the account shape returned alongside tokens
type AuthUser struct {
	ID          string `json:"id"`                    // Hex ObjectID
	Email       string `json:"email"`                 // Login email
	FirstName   string `json:"firstName"`             // Given name
	LastName    string `json:"lastName"`              // Family name
	DisplayName string `json:"displayName,omitempty"` // Optional display name
	PhotoURL    string `json:"photoURL,omitempty"`    // Avatar URL
	UserType    string `json:"userType"`              // Role name
}

// User is the full profile shape, never carrying the password
type User struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DisplayName      string `json:"displayName,omitempty"`
	PhotoURL         string `json:"photoURL,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Address          string `json:"address,omitempty"`
	Website          string `json:"website,omitempty"`
	BarCouncilNumber string `json:"barCouncilNumber,omitempty"`
	PracticeType     string `json:"practiceType,omitempty"`
	UserType         string `json:"userType"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// FromAuthUser builds the short account shape
func FromAuthUser(u *domain.User) AuthUser {
	role := u.Role
	if role == "" {
		role = domain.RoleLawyer // Accounts created before roles existed
	}
	return AuthUser{
		ID:          FormatID(u.ID),
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		UserType:    string(role),
	}
}

// FromUser builds the full profile shape
func FromUser(u *domain.User) User {
	short := FromAuthUser(u)
	return User{
		ID:               short.ID,
		Email:            short.Email,
		FirstName:        short.FirstName,
		LastName:         short.LastName,
		DisplayName:      short.DisplayName,
		PhotoURL:         short.PhotoURL,
		Phone:            u.Phone,
		Address:          u.Address,
		Website:          u.Website,
		BarCouncilNumber: u.BarCouncilNumber,
		PracticeType:     u.PracticeType,
		UserType:         short.UserType,
		CreatedAt:        FormatTime(u.CreatedAt),
		UpdatedAt:        FormatTime(u.UpdatedAt),
	}
}

// ClientRef is a populated client reference
type ClientRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// CaseRef is a populated case reference
type CaseRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func fromClientSummary(s *domain.ClientSummary) *ClientRef {
	if s == nil {
		return nil
	}
	return &ClientRef{ID: FormatID(s.ID), Name: s.Name, Email: s.Email}
}

func fromCaseSummary(s *domain.CaseSummary) *CaseRef {
	if s == nil {
		return nil
	}
	return &CaseRef{ID: FormatID(s.ID), Title: s.Title}
}

// Case is the JSON shape of a case
type Case struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CaseNumber  string     `json:"caseNumber,omitempty"`
	Court       string     `json:"court,omitempty"`
	Status      string     `json:"status"`
	ClientID    string     `json:"clientId"`
	Client      *ClientRef `json:"client"` // Null when the client no longer exists
	UserID      string     `json:"userId"`
	FilingDate  *string    `json:"filingDate,omitempty"`
	HearingDate *string    `json:"hearingDate,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// FromCase converts a case view
func FromCase(v domain.CaseView) Case {
	return Case{
		ID:          FormatID(v.ID),
		Title:       v.Title,
		Description: v.Description,
		CaseNumber:  v.CaseNumber,
		Court:       v.Court,
		Status:      string(v.Status),
		ClientID:    FormatID(v.Case.Client),
		Client:      fromClientSummary(v.ClientInfo),
		UserID:      FormatID(v.UserID),
		FilingDate:  FormatOptionalTime(v.FilingDate),
		HearingDate: FormatOptionalTime(v.HearingDate),
		Notes:       v.Notes,
		CreatedAt:   FormatTime(v.CreatedAt),
		UpdatedAt:   FormatTime(v.UpdatedAt),
	}
}

// Client is the JSON shape of a client
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Company   string `json:"company,omitempty"`
	Notes     string `json:"notes,omitempty"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FromClient converts a client
func FromClient(c domain.Client) Client {
	return Client{
		ID:        FormatID(c.ID),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Company:   c.Company,
		Notes:     c.Notes,
		UserID:    FormatID(c.UserID),
		CreatedAt: FormatTime(c.CreatedAt),
		UpdatedAt: FormatTime(c.UpdatedAt),
	}
}

// Document is the JSON shape of a document
type Document struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	FileURL     string     `json:"fileUrl"`
	FileType    string     `json:"fileType"`
	FileSize    int64      `json:"fileSize"`
	UserID      string     `json:"userId"`
	CaseID      *string    `json:"caseId,omitempty"`
	Case        *CaseRef   `json:"case,omitempty"`
	ClientID    *string    `json:"clientId,omitempty"`
	Client      *ClientRef `json:"client,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// FileURL is the download route of an uploaded document
func FileURL(id bson.ObjectID) string {
	return "/api/documents/" + FormatID(id) + "/file"
}

// FromDocument converts a document view. Uploaded files are served through
// the API, so their stored URL is replaced by the download route.
func FromDocument(v domain.DocumentView) Document {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	fileURL := v.FileURL
	if v.StorageKey != "" {
		fileURL = FileURL(v.ID)
	}
	return Document{
		ID:          FormatID(v.ID),
		Title:       v.Title,
		Description: v.Description,
		FileURL:     fileURL,
		FileType:    v.FileType,
		FileSize:    v.FileSize,
		UserID:      FormatID(v.UserID),
		CaseID:      FormatOptionalID(v.CaseID),
		Case:        fromCaseSummary(v.CaseInfo),
		ClientID:    FormatOptionalID(v.ClientID),
		Client:      fromClientSummary(v.ClientInfo),
		Tags:        tags,
		CreatedAt:   FormatTime(v.CreatedAt),
		UpdatedAt:   FormatTime(v.UpdatedAt),
	}
}

// Task is the JSON shape of a task
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *string    `json:"dueDate,omitempty"`
	CaseID      *string    `json:"caseId,omitempty"`
	Case        *CaseRef   `json:"case,omitempty"`
	ClientID    *string    `json:"clientId,omitempty"`
	Client      *ClientRef `json:"client,omitempty"`
	Notes       string     `json:"notes"`
	UserID      string     `json:"userId"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// FromTask converts a task view
func FromTask(v domain.TaskView) Task {
	return Task{
		ID:          FormatID(v.ID),
		Title:       v.Title,
		Description: v.Description,
		Status:      string(v.Status),
		Priority:    string(v.Priority),
		DueDate:     FormatOptionalTime(v.DueDate),
		CaseID:      FormatOptionalID(v.CaseID),
		Case:        fromCaseSummary(v.CaseInfo),
		ClientID:    FormatOptionalID(v.ClientID),
		Client:      fromClientSummary(v.ClientInfo),
		Notes:       v.Notes,
		UserID:      FormatID(v.UserID),
		CreatedAt:   FormatTime(v.CreatedAt),
		UpdatedAt:   FormatTime(v.UpdatedAt),
	}
}

// Cases converts a slice of case views, never returning nil
func Cases(views []domain.CaseView) []Case {
	out := make([]Case, 0, len(views))
	for _, v := range views {
		out = append(out, FromCase(v))
	}
	return out
}

// Clients converts a slice of clients
func Clients(clients []domain.Client) []Client {
	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		out = append(out, FromClient(c))
	}
	return out
}

// Documents converts a slice of document views
func Documents(views []domain.DocumentView) []Document {
	out := make([]Document, 0, len(views))
	for _, v := range views {
		out = append(out, FromDocument(v))
	}
	return out
}

// Tasks converts a slice of task views
func Tasks(views []domain.TaskView) []Task {
	out := make([]Task, 0, len(views))
	for _, v := range views {
		out = append(out, FromTask(v))
	}
	return out
}
