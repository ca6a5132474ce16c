package minutes

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/mom-generator/internal/usecase/errors"
)

// Input replaces the meeting details and raw notes of a session
type Input struct {
	Meta        entities.MeetingMeta
	Discussions []entities.RawDiscussion
	ActionItems []entities.RawActionItem
}

// UpdateInput replaces the raw inputs. Only allowed while editing. A
// generation still waiting on the backend is superseded and its result dropped.
func (s *Service) UpdateInput(ctx context.Context, id string, in Input) (State, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return State{}, err
	}
	defer s.release(sess)

	if sess.record.State != entities.StateEditing {
		return State{}, usecaseErrors.ErrNotEditable
	}

	meta := in.Meta
	if meta.Attendees == nil {
		meta.Attendees = []string{}
	}
	s.resolveNames(ctx, &meta)

	sess.generation++
	r := sess.record
	r.Meta = meta
	r.RawDiscussions = nonNilDiscussions(in.Discussions)
	r.RawActionItems = nonNilActionItems(in.ActionItems)
	r.UpdatedAt = s.now()

	return sess.state(), nil
}

// resolveNames fills the project and attendee names from the directory.
// Lookup failures leave the names as given.
func (s *Service) resolveNames(ctx context.Context, meta *entities.MeetingMeta) {
	dir := s.deps.Directory
	if dir == nil {
		return
	}

	if meta.ProjectID != "" {
		project, err := dir.Project(ctx, meta.ProjectID)
		if err != nil {
			s.logger.Warn("⚠️ Failed to resolve project name",
				zap.String("project_id", meta.ProjectID),
				zap.Error(err),
			)
		} else {
			meta.ProjectName = project.Name
		}
	}

	if len(meta.Attendees) == 0 {
		meta.AttendeeNames = nil
		return
	}
	users, err := dir.Users(ctx)
	if err != nil {
		s.logger.Warn("⚠️ Failed to resolve attendee names", zap.Error(err))
		return
	}
	byID := make(map[string]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Name
	}
	names := make([]string, 0, len(meta.Attendees))
	for _, a := range meta.Attendees {
		if name, ok := byID[a]; ok {
			names = append(names, name)
		}
	}
	meta.AttendeeNames = names
}

// Generate structures the raw inputs. Backend failures fall back to the rule
// engine and are reported through the notice; they never fail the call.
func (s *Service) Generate(ctx context.Context, id string) (State, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return State{}, err
	}

	if err := sess.record.ValidateForGeneration(); err != nil {
		s.release(sess)
		return State{}, err
	}

	if s.deps.Limiter != nil {
		ok, err := s.deps.Limiter.Allow(ctx, "generate:"+id, s.opts.GenerateCooldown)
		if err != nil {
			s.logger.Warn("⚠️ Rate limiter unavailable, allowing generation", zap.Error(err))
		} else if !ok {
			s.release(sess)
			return State{}, usecaseErrors.ErrRateLimited
		}
	}

	sess.generation++
	generation := sess.generation
	meta := sess.record.Meta
	req := entities.GenerationRequest{
		ProjectName:       meta.ProjectName,
		Date:              meta.Date,
		Agenda:            meta.Agenda,
		AttendeeNames:     append([]string(nil), meta.AttendeeNames...),
		ExternalAttendees: meta.ExternalAttendees,
		Discussions:       append([]entities.RawDiscussion(nil), sess.record.RawDiscussions...),
		ActionItems:       append([]entities.RawActionItem(nil), sess.record.RawActionItems...),
	}
	s.release(sess)

	// The backend call runs without the session lock; the generation counter
	// tells whether the result is still wanted.
	result := s.deps.Generator.Generate(ctx, req)

	sess, err = s.acquire(id)
	if err != nil {
		return State{}, err
	}
	defer s.release(sess)

	if sess.generation != generation {
		s.logger.Info("⏭️ Discarding stale generation result",
			zap.String("session_id", id),
			zap.Uint64("generation", generation),
		)
		return sess.state(), nil
	}

	r := sess.record
	r.StructuredDiscussions = result.Discussions
	r.StructuredActionItems = result.ActionItems
	r.State = entities.StateGenerated
	r.UpdatedAt = s.now()
	sess.source = result.Source
	sess.notice = result.Notice
	sess.conversion = nil

	s.logger.Info("✅ Minutes generated",
		zap.String("session_id", id),
		zap.String("source", string(result.Source)),
		zap.Int("discussions", len(result.Discussions)),
		zap.Int("action_items", len(result.ActionItems)),
	)
	return sess.state(), nil
}

// EditInputs returns a generated record to editing so its raw inputs can be
// changed. Structured content is kept until the next generation.
func (s *Service) EditInputs(id string) (State, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return State{}, err
	}
	defer s.release(sess)

	if sess.record.State == entities.StateEditing {
		return sess.state(), nil
	}
	sess.generation++
	sess.record.State = entities.StateEditing
	sess.record.UpdatedAt = s.now()
	return sess.state(), nil
}

// DiscussionPatch corrects a structured discussion. Nil fields are kept.
type DiscussionPatch struct {
	Topic  *string
	Markup *string
}

// UpdateDiscussion corrects structured discussion i
func (s *Service) UpdateDiscussion(id string, i int, p DiscussionPatch) (State, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return State{}, err
	}
	defer s.release(sess)

	if sess.record.State == entities.StateEditing {
		return State{}, usecaseErrors.ErrNotGenerated
	}
	if i < 0 || i >= len(sess.record.StructuredDiscussions) {
		return State{}, fmt.Errorf("%w: discussion %d", entities.ErrIndexOutOfRange, i)
	}

	d := &sess.record.StructuredDiscussions[i]
	if p.Topic != nil {
		d.Topic = strings.TrimSpace(*p.Topic)
	}
	if p.Markup != nil {
		d.Markup = *p.Markup
	}
	sess.markEdited(s.now())
	return sess.state(), nil
}

// ActionItemPatch corrects a structured action item. Nil fields are kept.
type ActionItemPatch struct {
	Task                *string
	ResponsiblePerson   *string
	ResponsiblePersonID *string
	Deadline            *string
}

// UpdateActionItem corrects structured action item i
func (s *Service) UpdateActionItem(id string, i int, p ActionItemPatch) (State, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return State{}, err
	}
	defer s.release(sess)

	if sess.record.State == entities.StateEditing {
		return State{}, usecaseErrors.ErrNotGenerated
	}
	if i < 0 || i >= len(sess.record.StructuredActionItems) {
		return State{}, fmt.Errorf("%w: action item %d", entities.ErrIndexOutOfRange, i)
	}

	a := &sess.record.StructuredActionItems[i]
	if p.Task != nil {
		a.Task = strings.TrimSpace(*p.Task)
	}
	if p.ResponsiblePerson != nil {
		a.ResponsiblePerson = strings.TrimSpace(*p.ResponsiblePerson)
		a.ResponsiblePersonID = ""
	}
	if p.ResponsiblePersonID != nil {
		a.ResponsiblePersonID = *p.ResponsiblePersonID
	}
	if p.Deadline != nil {
		a.Deadline = *p.Deadline
	}
	sess.conversion = nil
	sess.markEdited(s.now())
	return sess.state(), nil
}

// AddComment appends a comment by the acting user
func (s *Service) AddComment(ctx context.Context, id string, text string) (State, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return State{}, fmt.Errorf("%w: comment text is empty", usecaseErrors.ErrInvalidInput)
	}

	sess, err := s.acquire(id)
	if err != nil {
		return State{}, err
	}
	defer s.release(sess)

	p := performer(ctx)
	sess.record.Comments = append(sess.record.Comments, entities.Comment{
		Author:    p.Name,
		AuthorID:  p.ID,
		Text:      text,
		Timestamp: s.now(),
	})
	sess.markEdited(s.now())
	return sess.state(), nil
}

func nonNilDiscussions(in []entities.RawDiscussion) []entities.RawDiscussion {
	if in == nil {
		return []entities.RawDiscussion{}
	}
	return append([]entities.RawDiscussion(nil), in...)
}

func nonNilActionItems(in []entities.RawActionItem) []entities.RawActionItem {
	if in == nil {
		return []entities.RawActionItem{}
	}
	return append([]entities.RawActionItem(nil), in...)
}
