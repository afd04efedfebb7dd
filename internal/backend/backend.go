// Package backend exposes the account and entity operations used by command
// line tools, either straight against the stores or over the HTTP API.
package backend

import (
	"context" // Cancellation and deadlines
	"fmt"     // Message formatting
	"strings" // String helpers

	"legal_practice/internal/wire" // JSON shapes
)

// Session is a signed-in account and its token
type Session struct {
	User  wire.AuthUser `json:"user"`  // Account summary
	Token string        `json:"token"` // Bearer token
}

// Backend is the capability set shared by the direct and remote implementations.
// Every entity call acts as the account the token belongs to.
type Backend interface {
	Register(ctx context.Context, in wire.RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)

	Cases(ctx context.Context, token string) ([]wire.Case, error)
	CreateCase(ctx context.Context, token string, in wire.CaseInput) (string, error)
	Clients(ctx context.Context, token string) ([]wire.Client, error)
	CreateClient(ctx context.Context, token string, in wire.ClientInput) (string, error)
	Documents(ctx context.Context, token string) ([]wire.Document, error)
	CreateDocument(ctx context.Context, token string, in wire.DocumentInput) (string, error)
	Tasks(ctx context.Context, token string) ([]wire.Task, error)
	CreateTask(ctx context.Context, token string, in wire.TaskInput) (string, error)
}

// Kind selects an implementation
type Kind string

const (
	KindDirect Kind = "direct" // Stores and token service in process
	KindRemote Kind = "remote" // HTTP client against a running server
)

// ParseKind reads a DATA_BACKEND value; empty means direct
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindDirect, nil
	case KindDirect, KindRemote:
		return k, nil
	default:
		return "", fmt.Errorf("unknown data backend %q, want direct or remote", s)
	}
}
