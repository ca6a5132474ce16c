package numbering

import (
	"context"
	"errors"
	"testing"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"go.uber.org/zap"
)

type stubStore struct {
	ids        []string
	idsErr     error
	latest     int
	versionErr error
	limit      int
}

func (s *stubStore) Get(context.Context, string) (*entities.MomDocument, error) {
	return nil, entities.ErrDocumentNotFound
}

func (s *stubStore) RecentIdentifiers(_ context.Context, limit int) ([]string, error) {
	s.limit = limit
	return s.ids, s.idsErr
}

func (s *stubStore) LatestVersion(context.Context, string) (int, error) {
	return s.latest, s.versionErr
}

func (s *stubStore) Create(context.Context, *entities.MomDocument) error { return nil }
func (s *stubStore) Update(context.Context, *entities.MomDocument) error { return nil }
func (s *stubStore) List(context.Context, entities.DocumentFilter) ([]*entities.MomDocument, error) {
	return nil, nil
}

func TestNextIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		store *stubStore
		want  string
	}{
		{"empty store", &stubStore{}, "MOM_001"},
		{"max plus one", &stubStore{ids: []string{"MOM_003", "MOM_007", "MOM_002"}}, "MOM_008"},
		{"ignores foreign ids", &stubStore{ids: []string{"MOM_003", "MOM_7X", "TASK_900", "xMOM_050"}}, "MOM_004"},
		{"case insensitive prefix", &stubStore{ids: []string{"mom_010"}}, "MOM_011"},
		{"grows past padding", &stubStore{ids: []string{"MOM_999"}}, "MOM_1000"},
		{"read error falls back", &stubStore{idsErr: errors.New("db down")}, "MOM_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAllocator(tt.store, "MOM", 0, zap.NewNop())
			if got := a.NextIdentifier(context.Background()); got != tt.want {
				t.Fatalf("NextIdentifier() = %q, want %q", got, tt.want)
			}
			if tt.store.idsErr == nil && tt.store.limit != DefaultScanLimit {
				t.Fatalf("expected scan limit %d, got %d", DefaultScanLimit, tt.store.limit)
			}
		})
	}
}

func TestNextIdentifierOtherPrefix(t *testing.T) {
	a := NewAllocator(&stubStore{ids: []string{"PREFIX_003", "PREFIX_007", "MOM_020"}}, "PREFIX", 10, nil)
	if got := a.NextIdentifier(context.Background()); got != "PREFIX_008" {
		t.Fatalf("got %q, want PREFIX_008", got)
	}
}

func TestNextVersion(t *testing.T) {
	tests := []struct {
		name  string
		store *stubStore
		want  int
	}{
		{"first version", &stubStore{}, 1},
		{"increments latest", &stubStore{latest: 4}, 5},
		{"read error falls back", &stubStore{latest: 9, versionErr: errors.New("timeout")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAllocator(tt.store, "MOM", 0, zap.NewNop())
			if got := a.NextVersion(context.Background(), "p1"); got != tt.want {
				t.Fatalf("NextVersion() = %d, want %d", got, tt.want)
			}
		})
	}
}
