package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// DirectoryRepository reads users and project membership using GORM
type DirectoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{
		db: db,
	}
}

// ProjectMembers returns the active members of a project
func (r *DirectoryRepository) ProjectMembers(ctx context.Context, projectID string) ([]entities.Identity, error) {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return nil, entities.ErrProjectNotFound
	}

	var members []entities.ProjectMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = project_members.user_id AND users.is_active = ?", true).
		Where("project_members.project_id = ?", id).
		Order("users.name ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}

	out := make([]entities.Identity, 0, len(members))
	for _, m := range members {
		out = append(out, entities.Identity{ID: m.UserID.String(), Name: m.User.Name, Role: m.Role})
	}
	return out, nil
}

// Users returns every active user
func (r *DirectoryRepository) Users(ctx context.Context) ([]entities.Identity, error) {
	var users []entities.User
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]entities.Identity, 0, len(users))
	for _, u := range users {
		out = append(out, entities.Identity{ID: u.ID.String(), Name: u.Name, Role: u.Role})
	}
	return out, nil
}

// Project finds a project by ID
func (r *DirectoryRepository) Project(ctx context.Context, projectID string) (*entities.Project, error) {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return nil, entities.ErrProjectNotFound
	}

	var project entities.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &project, nil
}
