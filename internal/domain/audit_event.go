package domain

// AuditEvent Model, stored in SQL through GORM
type AuditEvent struct {
	ID        uint   `gorm:"primaryKey"`               // Primary key
	UserID    string `gorm:"size:24;index"`            // Acting account, hex ObjectID
	Action    string `gorm:"size:64;not null"`         // register, login, create, update, delete...
	Entity    string `gorm:"size:32;index:idx_entity"` // user, case, client, document, task
	EntityID  string `gorm:"size:24;index:idx_entity"` // Affected record
	Detail    string `gorm:"size:255"`                 // Free-form context
	CreatedAt int64  `gorm:"autoCreateTime:milli"`     // Timestamp of creation in milliseconds
}
