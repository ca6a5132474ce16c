package repositories

import (
	"context"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// DirectoryLookup resolves the people and projects a meeting refers to
type DirectoryLookup interface {
	// ProjectMembers returns the members of a project with their role bucket
	ProjectMembers(ctx context.Context, projectID string) ([]entities.Identity, error)

	// Users returns every active user
	Users(ctx context.Context) ([]entities.Identity, error)

	// Project finds a project by ID
	Project(ctx context.Context, id string) (*entities.Project, error)
}
