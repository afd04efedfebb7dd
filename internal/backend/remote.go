package backend

import (
	"bytes"         // Request bodies
	"context"       // Cancellation and deadlines
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Message formatting
	"io"            // Streams
	"net/http"      // HTTP client
	"strings"       // String helpers
	"time"          // Timestamps

	"legal_practice/internal/apperrors" // Typed errors
	"legal_practice/internal/wire"      // JSON shapes
)

// Remote calls a running API server
type Remote struct {
	baseURL string       // Server root without a trailing slash
	client  *http.Client // Shared HTTP client
}

// NewRemote targets baseURL, such as http://localhost:3001. A nil client gets a 30s timeout.
func NewRemote(baseURL string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Remote{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// errorBody is the API's error response
type errorBody struct {
	Error   string            `json:"error"`   // Short error
	Message string            `json:"message"` // Human readable message
	Details string            `json:"details"` // Optional detail
	Fields  map[string]string `json:"fields"`  // Per-field validation errors
}

// statusError turns an error response back into a typed error
func statusError(status int, body errorBody) error {
	msg := body.Message // Prefer the human readable message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(status) // Non-JSON error body
	}
	var e *apperrors.Error
	switch status {
	case http.StatusBadRequest:
		e = apperrors.Validation(msg, body.Fields)
	case http.StatusConflict:
		e = apperrors.Duplicate(msg, nil)
	case http.StatusUnauthorized:
		e = apperrors.Unauthorized(msg)
	case http.StatusForbidden:
		e = apperrors.Forbidden(msg)
	case http.StatusNotFound:
		e = apperrors.NotFound(msg)
	case http.StatusServiceUnavailable:
		e = apperrors.Connection(msg, nil)
	default:
		e = apperrors.Wrap(msg, fmt.Errorf("status %d", status))
	}
	if body.Details != "" {
		e = e.WithDetails("%s", body.Details)
	}
	return e
}

// do sends one JSON request and decodes the response into out
func (r *Remote) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in) // Encode request body
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := r.client.Do(req) // Send request
	if err != nil {
		return apperrors.Connection("API unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb) // Body may not be JSON
		return statusError(resp.StatusCode, eb)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Register posts to /api/auth/register
func (r *Remote) Register(ctx context.Context, in wire.RegisterInput) (*Session, error) {
	var s Session // User and token
	if err := r.do(ctx, http.MethodPost, "/api/auth/register", "", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Login posts to /api/auth/login
func (r *Remote) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	in := wire.LoginInput{Email: email, Password: password}
	if err := r.do(ctx, http.MethodPost, "/api/auth/login", "", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// list fetches a collection endpoint
func list[T any](ctx context.Context, r *Remote, path, token string) ([]T, error) {
	var out []T
	if err := r.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// create posts to a collection endpoint and returns the new id
func (r *Remote) create(ctx context.Context, path, token string, in any) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := r.do(ctx, http.MethodPost, path, token, in, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Cases fetches /api/cases
func (r *Remote) Cases(ctx context.Context, token string) ([]wire.Case, error) {
	return list[wire.Case](ctx, r, "/api/cases", token)
}

// CreateCase posts to /api/cases and returns the new id
func (r *Remote) CreateCase(ctx context.Context, token string, in wire.CaseInput) (string, error) {
	return r.create(ctx, "/api/cases", token, in)
}

// Clients fetches /api/clients
func (r *Remote) Clients(ctx context.Context, token string) ([]wire.Client, error) {
	return list[wire.Client](ctx, r, "/api/clients", token)
}

// CreateClient posts to /api/clients and returns the new id
func (r *Remote) CreateClient(ctx context.Context, token string, in wire.ClientInput) (string, error) {
	return r.create(ctx, "/api/clients", token, in)
}

// Documents fetches /api/documents
func (r *Remote) Documents(ctx context.Context, token string) ([]wire.Document, error) {
	return list[wire.Document](ctx, r, "/api/documents", token)
}

// CreateDocument posts to /api/documents and returns the new id
func (r *Remote) CreateDocument(ctx context.Context, token string, in wire.DocumentInput) (string, error) {
	return r.create(ctx, "/api/documents", token, in)
}

// Tasks fetches /api/tasks
func (r *Remote) Tasks(ctx context.Context, token string) ([]wire.Task, error) {
	return list[wire.Task](ctx, r, "/api/tasks", token)
}

// CreateTask posts to /api/tasks and returns the new id
func (r *Remote) CreateTask(ctx context.Context, token string, in wire.TaskInput) (string, error) {
	return r.create(ctx, "/api/tasks", token, in)
}
