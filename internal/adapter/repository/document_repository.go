package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// DocumentRepository stores saved minutes in the documents table
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

// Get finds a document by identifier
func (r *DocumentRepository) Get(ctx context.Context, id string) (*entities.MomDocument, error) {
	var doc entities.MomDocument
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return &doc, nil
}

// RecentIdentifiers returns the newest minutes identifiers
func (r *DocumentRepository) RecentIdentifiers(ctx context.Context, limit int) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&entities.MomDocument{}).
		Where("folder = ?", entities.MomFolder).
		Order("created_at DESC").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list document ids: %w", err)
	}
	return ids, nil
}

// LatestVersion returns the highest version of a project, 0 if none
func (r *DocumentRepository) LatestVersion(ctx context.Context, projectID string) (int, error) {
	var version int
	if err := r.db.WithContext(ctx).
		Model(&entities.MomDocument{}).
		Where("project_id = ? AND folder = ?", projectID, entities.MomFolder).
		Select("COALESCE(MAX(mom_version), 0)").
		Scan(&version).Error; err != nil {
		return 0, fmt.Errorf("failed to read latest version: %w", err)
	}
	return version, nil
}

// Create inserts a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *entities.MomDocument) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", entities.ErrIdentifierConflict, doc.ID)
		}
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// Update overwrites an existing document. The identifier and the creation
// fields are never changed.
func (r *DocumentRepository) Update(ctx context.Context, doc *entities.MomDocument) error {
	result := r.db.WithContext(ctx).
		Model(&entities.MomDocument{}).
		Where("id = ?", doc.ID).
		Omit("id", "project_id", "mom_version", "created_at", "created_by_uid", "created_by_name").
		Select("*").
		Updates(doc)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", entities.ErrIdentifierConflict, doc.ID)
		}
		return fmt.Errorf("failed to update document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrDocumentNotFound
	}
	return nil
}

// List returns documents matching the filter, newest first
func (r *DocumentRepository) List(ctx context.Context, filter entities.DocumentFilter) ([]*entities.MomDocument, error) {
	query := r.db.WithContext(ctx).Model(&entities.MomDocument{})
	if filter.ProjectID != "" {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.Folder != "" {
		query = query.Where("folder = ?", filter.Folder)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var docs []*entities.MomDocument
	if err := query.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
