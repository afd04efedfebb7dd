package domain

import (
	"strings" // String helpers
	"time"    // Timestamps

	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

// Client Model
type Client struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email,omitempty"`
	Phone     string        `bson:"phone,omitempty"`
	Address   string        `bson:"address,omitempty"`
	Company   string        `bson:"company,omitempty"`
	Notes     string        `bson:"notes,omitempty"`
	UserID    bson.ObjectID `bson:"userId"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

// Validate checks the name and email of a client
func (c *Client) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(c.Name) == "" {
		fields["name"] = "Name is required"
	}
	if c.UserID.IsZero() {
		fields["userId"] = "Owner is required"
	}
	if len(fields) > 0 {
		return validationError("Client validation failed", fields)
	}
	return nil
}

// NewClient is the input for creating a client
type NewClient struct {
	OwnerID bson.ObjectID
	Name    string
	Email   string
	Phone   string
	Address string
	Company string
	Notes   string
}

// ClientPatch holds the client fields to change; nil leaves a field as is
type ClientPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Company *string
	Notes   *string
}
