// Package minutes runs editing sessions of meeting minutes: generation,
// corrections, saving with numbering and audit, and action item conversion.
package minutes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/mom-generator/internal/usecase/errors"
	"github.com/johnquangdev/mom-generator/internal/usecase/numbering"
	"github.com/johnquangdev/mom-generator/internal/usecase/render"
	"github.com/johnquangdev/mom-generator/internal/usecase/structuring"
	"github.com/johnquangdev/mom-generator/pkg/opcontext"
)

// Exporter turns a laid out document into the stored file
type Exporter interface {
	Bytes(doc *render.Document) ([]byte, error)
	ContentType() string
}

// Options tunes the service
type Options struct {
	// Minimum time between two generation attempts of one session
	GenerateCooldown time.Duration
	// Attempts of a first save when the allocated identifier is taken
	SaveAttempts int
	// Initial backoff between save and upload retries
	RetryInterval time.Duration
	// Sessions untouched for longer are dropped
	SessionTTL time.Duration
	// Page grid of rendered documents
	Layout render.Options
}

func (o Options) withDefaults() Options {
	if o.GenerateCooldown <= 0 {
		o.GenerateCooldown = 5 * time.Second
	}
	if o.SaveAttempts <= 0 {
		o.SaveAttempts = 5
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = 100 * time.Millisecond
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 12 * time.Hour
	}
	if o.Layout.LinesPerPage == 0 && o.Layout.CharsPerLine == 0 {
		o.Layout = render.DefaultOptions()
	}
	return o
}

// Dependencies are the collaborators of the service. Directory, Limiter and
// Transcriber may be nil.
type Dependencies struct {
	Store       repositories.DocumentStore
	Audit       repositories.AuditLog
	Tasks       repositories.TaskSink
	Directory   repositories.DirectoryLookup
	Blobs       repositories.BlobStorage
	Limiter     repositories.RateLimiter
	Transcriber repositories.Transcriber
	Generator   *structuring.Generator
	Allocator   *numbering.Allocator
	Exporter    Exporter
}

// Service manages minutes sessions
type Service struct {
	deps   Dependencies
	opts   Options
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService creates a minutes service
func NewService(deps Dependencies, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Generator == nil {
		deps.Generator = structuring.NewGenerator(nil, 0, logger)
	}
	return &Service{
		deps:     deps,
		opts:     opts.withDefaults(),
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open starts a new editing session
func (s *Service) Open(ctx context.Context) State {
	record := entities.NewMeetingRecord()
	if p, ok := opcontext.GetPerformer(ctx); ok {
		record.Meta.PreparedBy = p.Name
	}
	sess := s.register(record, "", nil)
	s.logger.Info("📝 Minutes session opened", zap.String("session_id", sess.ID))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state()
}

func (s *Service) register(record *entities.MeetingRecord, savedFingerprint string, saved *savedState) *Session {
	sess := &Session{
		ID:               uuid.NewString(),
		record:           record,
		savedFingerprint: savedFingerprint,
		saved:            saved,
		touched:          s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.sessions[sess.ID] = sess
	return sess
}

// pruneLocked drops sessions idle for longer than the TTL
func (s *Service) pruneLocked() {
	cutoff := s.now().Add(-s.opts.SessionTTL)
	for id, sess := range s.sessions {
		if sess.lastTouched().Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// acquire finds a session and locks it. Callers must call release.
func (s *Service) acquire(id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, usecaseErrors.ErrSessionNotFound
	}
	sess.mu.Lock()
	sess.touch(s.now())
	return sess, nil
}

func (s *Service) release(sess *Session) {
	sess.mu.Unlock()
}

// Close discards a session
func (s *Service) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Get returns the current state of a session
func (s *Service) Get(id string) (State, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return State{}, err
	}
	defer s.release(sess)
	return sess.state(), nil
}

func performer(ctx context.Context) opcontext.Performer {
	p, _ := opcontext.GetPerformer(ctx)
	return p
}
