package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskPriority defines the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// IsValid checks if the priority is valid
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskStatusTodo is the status of a freshly created task
const TaskStatusTodo = "To-Do"

// TaskRecord is a task materialized from a meeting action item
type TaskRecord struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title        string       `json:"title" gorm:"type:varchar(500);not null"`
	Description  string       `json:"description" gorm:"type:text"`
	Status       string       `json:"status" gorm:"type:varchar(50);not null"`
	Priority     TaskPriority `json:"priority" gorm:"type:varchar(20);not null"`
	ProjectID    string       `json:"project_id" gorm:"type:varchar(64);index"`
	MomID        string       `json:"mom_id" gorm:"type:varchar(64);index"`
	Source       string       `json:"source" gorm:"type:varchar(50)"`
	AssigneeID   string       `json:"assignee_id" gorm:"type:varchar(64)"`
	AssigneeName string       `json:"assignee_name" gorm:"type:varchar(255)"`
	DueDate      string       `json:"due_date" gorm:"type:varchar(20)"`
	AssignedDate string       `json:"assigned_date" gorm:"type:varchar(20)"`
	CreatedBy    string       `json:"created_by" gorm:"type:varchar(64)"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (TaskRecord) TableName() string {
	return "tasks"
}

// ActionItemOverride is the per-item editable state of a conversion session
type ActionItemOverride struct {
	AssigneeID   string       `json:"assignee_id"`
	AssigneeName string       `json:"assignee_name"`
	DueDate      string       `json:"due_date"`
	Priority     TaskPriority `json:"priority"`
	AssignedDate string       `json:"assigned_date"`
	Description  string       `json:"description"`
}

// DefaultTaskDescription is used when no description override is given
func DefaultTaskDescription(task string) string {
	return fmt.Sprintf("Generated from MoM: %s", task)
}

// NewTaskRecord builds a task for an action item of a saved record
func NewTaskRecord(item StructuredActionItem, o ActionItemOverride, projectID, momID, createdBy string) *TaskRecord {
	desc := o.Description
	if desc == "" {
		desc = DefaultTaskDescription(item.Task)
	}
	priority := o.Priority
	if !priority.IsValid() {
		priority = PriorityMedium
	}
	return &TaskRecord{
		ID:           uuid.New(),
		Title:        item.Task,
		Description:  desc,
		Status:       TaskStatusTodo,
		Priority:     priority,
		ProjectID:    projectID,
		MomID:        momID,
		Source:       MomSource,
		AssigneeID:   o.AssigneeID,
		AssigneeName: o.AssigneeName,
		DueDate:      o.DueDate,
		AssignedDate: o.AssignedDate,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now(),
	}
}
