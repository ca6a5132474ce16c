package repositories

import (
	"context"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// DocumentStore persists saved meeting records
type DocumentStore interface {
	// Get finds a document by identifier
	Get(ctx context.Context, id string) (*entities.MomDocument, error)

	// RecentIdentifiers returns up to limit identifiers, newest first
	RecentIdentifiers(ctx context.Context, limit int) ([]string, error)

	// LatestVersion returns the highest version stored for a project, 0 if none
	LatestVersion(ctx context.Context, projectID string) (int, error)

	// Create inserts a new document. Fails with entities.ErrIdentifierConflict
	// when the identifier or the (project, version) pair is taken.
	Create(ctx context.Context, doc *entities.MomDocument) error

	// Update overwrites an existing document
	Update(ctx context.Context, doc *entities.MomDocument) error

	// List returns documents matching the filter, newest first
	List(ctx context.Context, filter entities.DocumentFilter) ([]*entities.MomDocument, error)
}

// AuditLog is the append-only activity trail of saved documents
type AuditLog interface {
	Append(ctx context.Context, entry *entities.AuditEntry) error
	List(ctx context.Context, documentID string) ([]*entities.AuditEntry, error)
}

// TaskSink receives tasks converted from action items
type TaskSink interface {
	CreateTask(ctx context.Context, task *entities.TaskRecord) error
}
