package minutes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/usecase/numbering"
	"github.com/johnquangdev/mom-generator/internal/usecase/render"
	"github.com/johnquangdev/mom-generator/internal/usecase/structuring"
)

type memoryStore struct {
	mu        sync.Mutex
	docs      map[string]*entities.MomDocument
	seq       int
	createErr error
	// beforeCreate runs before a create is applied, to simulate a concurrent writer
	beforeCreate func(s *memoryStore, doc *entities.MomDocument)
	creates      int
	updates      int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[string]*entities.MomDocument)}
}

func (s *memoryStore) insertLocked(doc *entities.MomDocument) error {
	if _, ok := s.docs[doc.ID]; ok {
		return fmt.Errorf("%w: %s", entities.ErrIdentifierConflict, doc.ID)
	}
	for _, d := range s.docs {
		if d.ProjectID == doc.ProjectID && d.MomVersion == doc.MomVersion {
			return fmt.Errorf("%w: version %d", entities.ErrIdentifierConflict, doc.MomVersion)
		}
	}
	s.seq++
	cp := *doc
	cp.CreatedAt = time.Unix(int64(s.seq), 0)
	s.docs[doc.ID] = &cp
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*entities.MomDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, entities.ErrDocumentNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *memoryStore) RecentIdentifiers(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]*entities.MomDocument, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	ids := make([]string, 0, limit)
	for i := 0; i < len(docs) && i < limit; i++ {
		ids = append(ids, docs[i].ID)
	}
	return ids, nil
}

func (s *memoryStore) LatestVersion(_ context.Context, projectID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := 0
	for _, d := range s.docs {
		if d.ProjectID == projectID && d.MomVersion > v {
			v = d.MomVersion
		}
	}
	return v, nil
}

func (s *memoryStore) Create(_ context.Context, doc *entities.MomDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}
	if s.beforeCreate != nil {
		hook := s.beforeCreate
		s.beforeCreate = nil
		hook(s, doc)
	}
	return s.insertLocked(doc)
}

func (s *memoryStore) Update(_ context.Context, doc *entities.MomDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	old, ok := s.docs[doc.ID]
	if !ok {
		return entities.ErrDocumentNotFound
	}
	cp := *doc
	cp.CreatedAt = old.CreatedAt
	s.docs[doc.ID] = &cp
	return nil
}

func (s *memoryStore) List(_ context.Context, _ entities.DocumentFilter) ([]*entities.MomDocument, error) {
	return nil, errors.New("not used")
}

type memoryAudit struct {
	mu      sync.Mutex
	entries []*entities.AuditEntry
}

func (a *memoryAudit) Append(_ context.Context, e *entities.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
	return nil
}

func (a *memoryAudit) List(_ context.Context, documentID string) ([]*entities.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*entities.AuditEntry, 0)
	for _, e := range a.entries {
		if e.DocumentID == documentID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memoryTasks struct {
	failFor map[string]bool
	created []*entities.TaskRecord
	// afterCreate runs once after the first successful create
	afterCreate func()
}

func (t *memoryTasks) CreateTask(_ context.Context, task *entities.TaskRecord) error {
	if t.failFor[task.Title] {
		return errors.New("task store unavailable")
	}
	t.created = append(t.created, task)
	if t.afterCreate != nil {
		hook := t.afterCreate
		t.afterCreate = nil
		hook()
	}
	return nil
}

type staticDirectory struct{}

func (staticDirectory) ProjectMembers(_ context.Context, projectID string) ([]entities.Identity, error) {
	if projectID != "p-1" {
		return nil, entities.ErrProjectNotFound
	}
	return []entities.Identity{
		{ID: "u-1", Name: "Ann Lee", Role: entities.RoleAdmin},
		{ID: "u-2", Name: "Bob Stone", Role: entities.RoleMember},
	}, nil
}

func (d staticDirectory) Users(ctx context.Context) ([]entities.Identity, error) {
	return d.ProjectMembers(ctx, "p-1")
}

func (staticDirectory) Project(_ context.Context, id string) (*entities.Project, error) {
	if id != "p-1" {
		return nil, entities.ErrProjectNotFound
	}
	return &entities.Project{Name: "Apollo Web"}, nil
}

type flakyBlobs struct {
	mu       sync.Mutex
	failures []error
	uploads  map[string][]byte
	calls    int
}

func (b *flakyBlobs) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if len(b.failures) > 0 {
		err := b.failures[0]
		b.failures = b.failures[1:]
		return "", err
	}
	if b.uploads == nil {
		b.uploads = make(map[string][]byte)
	}
	b.uploads[path] = data
	return "https://files.example.com/" + path, nil
}

type textExporter struct{}

func (textExporter) Bytes(doc *render.Document) ([]byte, error) {
	return []byte(fmt.Sprintf("%s %s pages=%d", doc.Title, doc.Identifier, len(doc.Pages))), nil
}

func (textExporter) ContentType() string { return "application/pdf" }

type refusingLimiter struct{ allowed map[string]bool }

func (l *refusingLimiter) Allow(_ context.Context, key string, _ time.Duration) (bool, error) {
	if l.allowed[key] {
		return false, nil
	}
	l.allowed[key] = true
	return true, nil
}

type fixture struct {
	svc   *Service
	store *memoryStore
	audit *memoryAudit
	tasks *memoryTasks
	blobs *flakyBlobs
}

func newFixture() *fixture {
	f := &fixture{
		store: newMemoryStore(),
		audit: &memoryAudit{},
		tasks: &memoryTasks{},
		blobs: &flakyBlobs{},
	}
	logger := zap.NewNop()
	f.svc = NewService(Dependencies{
		Store:     f.store,
		Audit:     f.audit,
		Tasks:     f.tasks,
		Directory: staticDirectory{},
		Blobs:     f.blobs,
		Limiter:   &refusingLimiter{allowed: make(map[string]bool)},
		Allocator: numbering.NewAllocator(f.store, "MOM", 100, logger),
		Exporter:  textExporter{},
	}, Options{RetryInterval: time.Millisecond}, logger)
	return f
}

func strPtr(s string) *string { return &s }

// blockingBackend holds every call until released, then fails it
type blockingBackend struct {
	started  chan entities.GenerationRequest
	released chan struct{}
}

func newBlockingBackend() *blockingBackend {
	return &blockingBackend{
		started:  make(chan entities.GenerationRequest, 1),
		released: make(chan struct{}),
	}
}

func (b *blockingBackend) GenerateMinutes(ctx context.Context, req entities.GenerationRequest) (string, error) {
	b.started <- req
	select {
	case <-b.released:
	case <-ctx.Done():
	}
	return "", errors.New("backend unavailable")
}

func (f *fixture) useBackend(b *blockingBackend) {
	f.svc.deps.Generator = structuring.NewGenerator(b, time.Minute, zap.NewNop())
}
