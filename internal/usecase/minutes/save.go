package minutes

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/mom-generator/internal/usecase/errors"
	"github.com/johnquangdev/mom-generator/internal/usecase/render"
	"github.com/johnquangdev/mom-generator/internal/usecase/revision"
	"github.com/johnquangdev/mom-generator/pkg/opcontext"
)

const uploadAttempts = 3

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// ExportPath is where the exported file of a record is stored:
// documents/moms/<id>/<id>_<project>_<date>.pdf
func ExportPath(identifier, projectName, date string) (path, filename string) {
	project := unsafePathChars.ReplaceAllString(projectName, "-")
	filename = fmt.Sprintf("%s_%s_%s.pdf", identifier, project, date)
	return fmt.Sprintf("%s/%s/%s", entities.MomPathRoot, identifier, filename), filename
}

// SaveResult reports what a save wrote
type SaveResult struct {
	State   State                `json:"state"`
	Created bool                 `json:"created"`
	Audit   *entities.AuditEntry `json:"audit,omitempty"`
}

// Save persists the session record. A first save allocates the identifier
// and version; later saves overwrite the document under the same identifier.
// On failure the session is left untouched and Save stays enabled.
func (s *Service) Save(ctx context.Context, id string) (SaveResult, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return SaveResult{}, err
	}
	defer s.release(sess)

	if sess.record.State == entities.StateEditing {
		return SaveResult{}, usecaseErrors.ErrNotGenerated
	}
	if !sess.saveEnabled() {
		return SaveResult{}, usecaseErrors.ErrNothingToSave
	}

	work := sess.record.Clone()
	work.UpdatedAt = s.now()
	s.refreshAccess(ctx, work)

	created := work.Identifier == nil
	if created {
		err = s.createDocument(ctx, work)
	} else {
		err = s.updateDocument(ctx, work)
	}
	if err != nil {
		s.logger.Error("❌ Failed to save minutes",
			zap.String("session_id", id),
			zap.String("mom_no", work.IdentifierOrEmpty()),
			zap.Error(err),
		)
		return SaveResult{}, fmt.Errorf("%w: %v", usecaseErrors.ErrSaveFailed, err)
	}

	work.State = entities.StateSaved
	next := revision.SnapshotOf(work)
	var prev *revision.Snapshot
	if sess.saved != nil {
		prev = &sess.saved.snapshot
	}

	sess.record = work
	sess.savedFingerprint = work.Fingerprint()
	sess.saved = &savedState{snapshot: next}

	action := entities.AuditActionUpdate
	if created {
		action = entities.AuditActionCreate
	}
	p := performer(ctx)
	entry := entities.NewAuditEntry(work.IdentifierOrEmpty(), action, revision.Diff(prev, next), p.ID, p.Name)
	if err := s.deps.Audit.Append(ctx, entry); err != nil {
		// The document is already stored; a missing audit line does not undo it.
		s.logger.Error("❌ Failed to append audit entry",
			zap.String("mom_no", work.IdentifierOrEmpty()),
			zap.Error(err),
		)
		entry = nil
	}

	s.logger.Info("💾 Minutes saved",
		zap.String("mom_no", work.IdentifierOrEmpty()),
		zap.Int("mom_version", work.Version),
		zap.Bool("created", created),
	)
	return SaveResult{State: sess.state(), Created: created, Audit: entry}, nil
}

// refreshAccess copies the project membership into the access buckets
func (s *Service) refreshAccess(ctx context.Context, r *entities.MeetingRecord) {
	if s.deps.Directory == nil || r.Meta.ProjectID == "" {
		return
	}
	members, err := s.deps.Directory.ProjectMembers(ctx, r.Meta.ProjectID)
	if err != nil {
		s.logger.Warn("⚠️ Failed to load project members, keeping access list",
			zap.String("project_id", r.Meta.ProjectID),
			zap.Error(err),
		)
		return
	}
	r.Access = entities.AccessFromMembers(members)
}

// createDocument allocates an identifier and inserts the document. The
// allocation is retried with backoff when the store reports a conflict.
func (s *Service) createDocument(ctx context.Context, r *entities.MeetingRecord) error {
	p := performer(ctx)
	attempt := 0

	operation := func() error {
		attempt++
		identifier := s.deps.Allocator.NextIdentifier(ctx)
		r.Identifier = &identifier
		r.Version = s.deps.Allocator.NextVersion(ctx, r.Meta.ProjectID)

		doc, err := s.exportAndBuild(ctx, r)
		if err != nil {
			return backoff.Permanent(err)
		}
		doc.CreatedByUID = p.ID
		doc.CreatedByName = p.Name

		err = s.deps.Store.Create(ctx, doc)
		if errors.Is(err, entities.ErrIdentifierConflict) {
			s.logger.Warn("🔁 Identifier taken, allocating again",
				zap.String("mom_no", identifier),
				zap.Int("attempt", attempt),
			)
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	if err := backoff.Retry(operation, s.retryPolicy(ctx, s.opts.SaveAttempts)); err != nil {
		r.Identifier = nil
		r.Version = 0
		r.Attachments = nil
		return err
	}
	return nil
}

func (s *Service) updateDocument(ctx context.Context, r *entities.MeetingRecord) error {
	doc, err := s.exportAndBuild(ctx, r)
	if err != nil {
		return err
	}
	return s.deps.Store.Update(ctx, doc)
}

// exportAndBuild renders and uploads the document file, then builds the
// persisted document for r
func (s *Service) exportAndBuild(ctx context.Context, r *entities.MeetingRecord) (*entities.MomDocument, error) {
	identifier := r.IdentifierOrEmpty()
	path, filename := ExportPath(identifier, r.Meta.ProjectName, r.Meta.Date)

	doc := render.RenderWithOptions(render.InputFromRecord(r, s.now()), s.opts.Layout)
	data, err := s.deps.Exporter.Bytes(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to export document: %w", err)
	}

	url, err := s.upload(ctx, path, data)
	if err != nil {
		return nil, err
	}

	r.StoragePath = path
	r.URL = url
	r.Attachments = []entities.Attachment{{
		Name:        filename,
		DisplayName: entities.DocumentName(identifier, r.Meta.ProjectName),
		StoragePath: path,
		URL:         url,
	}}

	persisted, err := entities.NewMomDocument(r)
	if err != nil {
		return nil, err
	}
	persisted.Filename = filename
	persisted.FileType = s.deps.Exporter.ContentType()
	persisted.FileSize = int64(len(data))
	return persisted, nil
}

// upload stores the file, retrying transient storage errors
func (s *Service) upload(ctx context.Context, path string, data []byte) (string, error) {
	var url string
	operation := func() error {
		var err error
		url, err = s.deps.Blobs.Upload(ctx, path, data, s.deps.Exporter.ContentType())
		if err != nil && !opcontext.IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(operation, s.retryPolicy(ctx, uploadAttempts)); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return url, nil
}

func (s *Service) retryPolicy(ctx context.Context, attempts int) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.opts.RetryInterval
	bo.MaxInterval = 10 * s.opts.RetryInterval
	bo.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(attempts-1)), ctx)
}
