// Package conversion turns action items of saved minutes into task records.
package conversion

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/mom-generator/internal/usecase/errors"
)

const dateLayout = "2006-01-02"

// now is replaced in tests
var now = time.Now

// OverridePatch changes some fields of an override. Nil fields are kept.
type OverridePatch struct {
	AssigneeID   *string                `json:"assignee_id,omitempty"`
	AssigneeName *string                `json:"assignee_name,omitempty"`
	DueDate      *string                `json:"due_date,omitempty"`
	Priority     *entities.TaskPriority `json:"priority,omitempty"`
	AssignedDate *string                `json:"assigned_date,omitempty"`
	Description  *string                `json:"description,omitempty"`
}

// Origin identifies the saved minutes the tasks come from
type Origin struct {
	ProjectID string
	MomID     string
	CreatedBy string
}

// Failure describes one item that could not be converted
type Failure struct {
	Index int    `json:"index"`
	Task  string `json:"task"`
	Error string `json:"error"`
}

// CommitResult summarises a commit. Created tasks are never rolled back.
type CommitResult struct {
	Created  int                    `json:"created"`
	Failed   int                    `json:"failed"`
	Tasks    []*entities.TaskRecord `json:"tasks"`
	Failures []Failure              `json:"failures,omitempty"`
}

// Session holds the per-item overrides of one conversion
type Session struct {
	items     []entities.StructuredActionItem
	overrides []entities.ActionItemOverride
	directory []entities.Identity
}

// Begin opens a conversion over items. Each override starts from the item:
// the assignee is guessed from the directory by name, the due date is the
// item deadline and the assigned date is the meeting date, or today.
func Begin(items []entities.StructuredActionItem, directory []entities.Identity, meetingDate string) *Session {
	assigned := meetingDate
	if assigned == "" {
		assigned = now().Format(dateLayout)
	}

	s := &Session{
		items:     make([]entities.StructuredActionItem, len(items)),
		overrides: make([]entities.ActionItemOverride, 0, len(items)),
		directory: directory,
	}
	copy(s.items, items)

	for _, item := range items {
		o := entities.ActionItemOverride{
			DueDate:      item.Deadline,
			Priority:     entities.PriorityMedium,
			AssignedDate: assigned,
			Description:  entities.DefaultTaskDescription(item.Task),
		}
		if item.ResponsiblePersonID != "" {
			o.AssigneeID = item.ResponsiblePersonID
			o.AssigneeName = item.ResponsiblePerson
		} else if person, ok := entities.FindIdentityByName(directory, item.ResponsiblePerson); ok {
			o.AssigneeID = person.ID
			o.AssigneeName = person.Name
		}
		s.overrides = append(s.overrides, o)
	}
	return s
}

// Len returns the number of action items
func (s *Session) Len() int {
	return len(s.items)
}

// Items returns the action items including written back assignees
func (s *Session) Items() []entities.StructuredActionItem {
	out := make([]entities.StructuredActionItem, len(s.items))
	copy(out, s.items)
	return out
}

// Overrides returns the current overrides
func (s *Session) Overrides() []entities.ActionItemOverride {
	out := make([]entities.ActionItemOverride, len(s.overrides))
	copy(out, s.overrides)
	return out
}

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.items) {
		return fmt.Errorf("%w: %d", entities.ErrIndexOutOfRange, i)
	}
	return nil
}

func (s *Session) checkPatch(p OverridePatch) error {
	if p.Priority != nil && !p.Priority.IsValid() {
		return usecaseErrors.ErrInvalidPriority
	}
	return nil
}

// SetOverride patches the override of item i
func (s *Session) SetOverride(i int, p OverridePatch) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if err := s.checkPatch(p); err != nil {
		return err
	}
	s.apply(i, p)
	return nil
}

// ApplyBatch patches every listed item. Nothing changes if any index is invalid.
func (s *Session) ApplyBatch(indices []int, p OverridePatch) error {
	for _, i := range indices {
		if err := s.checkIndex(i); err != nil {
			return err
		}
	}
	if err := s.checkPatch(p); err != nil {
		return err
	}
	for _, i := range indices {
		s.apply(i, p)
	}
	return nil
}

func (s *Session) apply(i int, p OverridePatch) {
	o := &s.overrides[i]
	if p.AssigneeID != nil {
		o.AssigneeID = *p.AssigneeID
		o.AssigneeName = ""
		for _, person := range s.directory {
			if person.ID == o.AssigneeID {
				o.AssigneeName = person.Name
				break
			}
		}
	}
	if p.AssigneeName != nil {
		o.AssigneeName = *p.AssigneeName
	}
	if p.DueDate != nil {
		o.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		o.Priority = *p.Priority
	}
	if p.AssignedDate != nil {
		o.AssignedDate = *p.AssignedDate
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
}

// Commit creates one task per selected item. Failures are collected and do
// not stop the remaining items. Assignee and due date are written back to
// the items that were created. Once ctx is done the items not yet attempted
// are reported as failures, so the result always accounts for the whole
// selection. Errors are returned for an invalid selection only.
func (s *Session) Commit(ctx context.Context, selected []int, sink repositories.TaskSink, origin Origin) (CommitResult, error) {
	if len(selected) == 0 {
		return CommitResult{}, usecaseErrors.ErrEmptySelection
	}

	indices := make([]int, 0, len(selected))
	seen := make(map[int]bool, len(selected))
	for _, i := range selected {
		if err := s.checkIndex(i); err != nil {
			return CommitResult{}, err
		}
		if !seen[i] {
			seen[i] = true
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)

	result := CommitResult{Tasks: make([]*entities.TaskRecord, 0, len(indices))}
	for n, i := range indices {
		if err := ctx.Err(); err != nil {
			for _, j := range indices[n:] {
				result.Failed++
				result.Failures = append(result.Failures, Failure{Index: j, Task: s.items[j].Task, Error: err.Error()})
			}
			break
		}

		item := s.items[i]
		o := s.overrides[i]
		task := entities.NewTaskRecord(item, o, origin.ProjectID, origin.MomID, origin.CreatedBy)
		if err := sink.CreateTask(ctx, task); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, Failure{Index: i, Task: item.Task, Error: err.Error()})
			continue
		}

		result.Created++
		result.Tasks = append(result.Tasks, task)
		if o.AssigneeName != "" {
			s.items[i].ResponsiblePerson = o.AssigneeName
			s.items[i].ResponsiblePersonID = o.AssigneeID
		}
		s.items[i].Deadline = o.DueDate
	}
	return result, nil
}
