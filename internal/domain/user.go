package domain

import (
	"strings" // String manipulation
	"time"    // Timestamps

	"go.mongodb.org/mongo-driver/v2/bson" // ObjectID type
)

// Role is the account type, serialized as userType
type Role string

const (
	RoleLawyer Role = "lawyer" // Default role
	RoleClient Role = "client" // Client portal account
	RoleAdmin  Role = "admin"  // Administrator
)

// ParseRole maps input to a role: empty means lawyer, anything unknown becomes admin
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleLawyer
	case RoleLawyer, RoleClient, RoleAdmin:
		return r
	default:
		return RoleAdmin
	}
}

// User Model
type User struct {
	ID               bson.ObjectID `bson:"_id,omitempty" json:"id"`                  // Primary key
	FirstName        string        `bson:"firstName" json:"firstName"`               // Required
	LastName         string        `bson:"lastName" json:"lastName"`                 // Required, may be empty when derived
	Email            string        `bson:"email" json:"email"`                       // Unique, lower-cased
	Password         string        `bson:"password" json:"-"`                        // bcrypt hash, never serialized
	DisplayName      string        `bson:"displayName,omitempty" json:"displayName"` // Optional
	PhotoURL         string        `bson:"photoURL,omitempty" json:"photoURL"`       // Optional
	Phone            string        `bson:"phone,omitempty" json:"phone"`             // Optional
	Address          string        `bson:"address,omitempty" json:"address"`         // Optional
	Website          string        `bson:"website,omitempty" json:"website"`         // Optional
	BarCouncilNumber string        `bson:"barCouncilNumber,omitempty" json:"barCouncilNumber"`
	PracticeType     string        `bson:"practiceType,omitempty" json:"practiceType"`
	Role             Role          `bson:"userType" json:"userType"` // lawyer, client or admin
	CreatedAt        time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// NewUser is the input for account creation
type NewUser struct {
	Email            string
	Password         string // Plaintext, hashed by the store
	FirstName        string
	LastName         string
	DisplayName      string
	PhotoURL         string
	Phone            string
	Address          string
	Website          string
	BarCouncilNumber string
	PracticeType     string
	Role             string // Raw role, coerced with ParseRole
}

// Normalize trims the email, derives missing names and coerces the role
func (n *NewUser) Normalize() {
	n.Email = NormalizeEmail(n.Email)
	n.FirstName = strings.TrimSpace(n.FirstName)
	n.LastName = strings.TrimSpace(n.LastName)
	n.DisplayName = strings.TrimSpace(n.DisplayName)
	if n.FirstName == "" {
		if words := strings.Fields(n.DisplayName); len(words) > 0 {
			n.FirstName = words[0] // First word of the display name
		} else {
			local, _, _ := strings.Cut(n.Email, "@")
			n.FirstName = local // Email local part
		}
	}
	if n.LastName == "" {
		if words := strings.Fields(n.DisplayName); len(words) > 1 {
			n.LastName = strings.Join(words[1:], " ")
		}
	}
	n.Role = string(ParseRole(n.Role))
}

// Validate checks the fields an account cannot exist without
func (n *NewUser) Validate() error {
	fields := map[string]string{}
	if n.Email == "" {
		fields["email"] = "Email is required"
	}
	if n.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return validationError("Email and password are required", fields)
	}
	return nil
}

// UserPatch holds optional account updates, nil fields are left untouched
type UserPatch struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Password         *string // Plaintext, re-hashed by the store
	DisplayName      *string
	PhotoURL         *string
	Phone            *string
	Address          *string
	Website          *string
	BarCouncilNumber *string
	PracticeType     *string
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
