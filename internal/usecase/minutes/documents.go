package minutes

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/mom-generator/internal/usecase/errors"
	"github.com/johnquangdev/mom-generator/internal/usecase/render"
	"github.com/johnquangdev/mom-generator/internal/usecase/revision"
	"github.com/johnquangdev/mom-generator/pkg/markup"
)

// Reopen loads saved minutes into a new session. The identifier is kept and
// Save stays disabled until something changes.
func (s *Service) Reopen(ctx context.Context, documentID string) (State, error) {
	doc, err := s.deps.Store.Get(ctx, documentID)
	if err != nil {
		return State{}, err
	}
	record, err := doc.ToRecord()
	if err != nil {
		return State{}, err
	}
	s.resolveNames(ctx, &record.Meta)

	sess := s.register(record, record.Fingerprint(), &savedState{snapshot: revision.SnapshotOf(record)})
	s.logger.Info("📂 Minutes reopened",
		zap.String("session_id", sess.ID),
		zap.String("mom_no", documentID),
	)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state(), nil
}

// Activities returns the audit trail of a saved document
func (s *Service) Activities(ctx context.Context, documentID string) ([]*entities.AuditEntry, error) {
	if _, err := s.deps.Store.Get(ctx, documentID); err != nil {
		return nil, err
	}
	return s.deps.Audit.List(ctx, documentID)
}

// Document lays out the current session record
func (s *Service) Document(id string) (*render.Document, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	if sess.record.State == entities.StateEditing {
		return nil, usecaseErrors.ErrNotGenerated
	}
	return render.RenderWithOptions(render.InputFromRecord(sess.record, s.now()), s.opts.Layout), nil
}

// View returns the editable view of the session record
func (s *Service) View(id string) (render.EditableView, error) {
	doc, err := s.Document(id)
	if err != nil {
		return render.EditableView{}, err
	}
	return doc.EditableView(), nil
}

// Export renders the session record to the export format
func (s *Service) Export(id string) ([]byte, string, error) {
	doc, err := s.Document(id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.deps.Exporter.Bytes(doc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to export document: %w", err)
	}
	return data, s.deps.Exporter.ContentType(), nil
}

// Share returns a plain text summary for e-mail or chat
func (s *Service) Share(id string) (string, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return "", err
	}
	defer s.release(sess)

	if sess.record.State == entities.StateEditing {
		return "", usecaseErrors.ErrNotGenerated
	}
	return ShareText(sess.record), nil
}

// ShareText formats a record as plain text
func ShareText(r *entities.MeetingRecord) string {
	var sb strings.Builder
	m := r.Meta

	title := render.Title
	if id := r.IdentifierOrEmpty(); id != "" {
		title = entities.DocumentName(id, m.ProjectName)
	} else if m.ProjectName != "" {
		title += " – " + m.ProjectName
	}
	sb.WriteString(title + "\n")

	when := m.Date
	if m.StartTime != "" {
		when += ", " + m.StartTime
		if m.EndTime != "" {
			when += " - " + m.EndTime
		}
	}
	writeField(&sb, "Date/Time", when)
	writeField(&sb, "Venue", m.Venue)
	names := m.AttendeeNames
	if len(names) == 0 {
		names = m.Attendees
	}
	writeField(&sb, "Attendees", strings.Join(names, ", "))
	writeField(&sb, "External", strings.Join(m.ExternalAttendeeList(), ", "))
	writeField(&sb, "Prepared By", m.PreparedBy)

	sb.WriteString("\nDiscussion:\n")
	for i, d := range r.StructuredDiscussions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, d.Topic)
		for _, line := range strings.Split(markup.PlainText(d.Markup), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				sb.WriteString("   " + line + "\n")
			}
		}
	}

	sb.WriteString("\nNext Action Plan:\n")
	for i, a := range r.StructuredActionItems {
		fmt.Fprintf(&sb, "%d. %s (%s", i+1, a.Task, a.ResponsiblePerson)
		if a.Deadline != "" {
			fmt.Fprintf(&sb, ", due %s", a.Deadline)
		}
		sb.WriteString(")\n")
	}

	if r.URL != "" {
		sb.WriteString("\nDocument: " + r.URL + "\n")
	}
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(sb, "%s: %s\n", label, value)
}

// Transcribe turns a voice note into text for the raw notes
func (s *Service) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	if s.deps.Transcriber == nil {
		return "", usecaseErrors.ErrTranscriptionDisabled
	}
	text, err := s.deps.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		s.logger.Error("❌ Failed to transcribe voice note", zap.Error(err))
		return "", err
	}
	return text, nil
}
