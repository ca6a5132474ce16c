package entities

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction is the kind of change recorded for a document
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
)

// AuditEntry is an immutable record of one save. Rows are only ever inserted.
type AuditEntry struct {
	ID              uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DocumentID      string      `json:"document_id" gorm:"type:varchar(64);not null;index"`
	Action          AuditAction `json:"action" gorm:"type:varchar(20);not null"`
	Changes         []string    `json:"changes" gorm:"type:jsonb;serializer:json"`
	PerformedBy     string      `json:"performed_by" gorm:"type:varchar(64)"`
	PerformedByName string      `json:"performed_by_name" gorm:"type:varchar(255)"`
	Timestamp       time.Time   `json:"timestamp" gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (AuditEntry) TableName() string {
	return "mom_activities"
}

// NewAuditEntry creates an entry stamped with the current time
func NewAuditEntry(documentID string, action AuditAction, changes []string, by, byName string) *AuditEntry {
	return &AuditEntry{
		ID:              uuid.New(),
		DocumentID:      documentID,
		Action:          action,
		Changes:         changes,
		PerformedBy:     by,
		PerformedByName: byName,
		Timestamp:       time.Now(),
	}
}
