// Package wire converts between persisted records and their JSON shape:
// ObjectIDs become hex strings, dates become ISO-8601 strings, and
// populated references become nested summaries.
package wire

import (
	"fmt"     // Message formatting
	"strings" // String helpers
	"time"    // Timestamps

	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

// ISOLayout matches JavaScript's Date.prototype.toISOString
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatID renders an ObjectID, the zero id renders as an empty string
func FormatID(id bson.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex() // 24 lowercase hex digits
}

// FormatOptionalID renders a nullable reference
func FormatOptionalID(id *bson.ObjectID) *string {
	if id == nil || id.IsZero() {
		return nil
	}
	s := id.Hex()
	return &s
}

// FormatTime renders a timestamp in UTC with millisecond precision
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// FormatOptionalTime renders a nullable date
func FormatOptionalTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

// ParseRef converts a caller-supplied id. Empty or malformed strings are
// reported as absent rather than as an error.
func ParseRef(s string) (bson.ObjectID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return bson.NilObjectID, false
	}
	id, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.NilObjectID, false
	}
	return id, true
}

// ParseOptionalRef is ParseRef returning a pointer, nil when absent
func ParseOptionalRef(s string) *bson.ObjectID {
	id, ok := ParseRef(s)
	if !ok {
		return nil
	}
	return &id
}

// IsRefSyntax reports whether s looks like a 24-digit hex id
func IsRefSyntax(s string) bool {
	_, ok := ParseRef(s)
	return ok
}

// dateLayouts are tried in order
var dateLayouts = []string{
	time.RFC3339Nano,      // Full ISO-8601
	"2006-01-02T15:04:05", // datetime-local inputs
	"2006-01-02T15:04",    // datetime-local without seconds
	time.DateOnly,         // Plain dates
}

// ParseOptionalTime accepts ISO-8601 timestamps and plain dates; empty means absent
func ParseOptionalTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC() // Stored in UTC
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}
