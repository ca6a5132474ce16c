package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// AuditRepository appends to the mom_activities table. It never updates or
// deletes rows.
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

// Append inserts one entry
func (r *AuditRepository) Append(ctx context.Context, entry *entities.AuditEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// List returns the entries of a document, newest first
func (r *AuditRepository) List(ctx context.Context, documentID string) ([]*entities.AuditEntry, error) {
	var entries []*entities.AuditEntry
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("timestamp DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
