package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// TaskRepository writes converted action items to the tasks table
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// CreateTask inserts one task
func (r *TaskRepository) CreateTask(ctx context.Context, task *entities.TaskRecord) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}
