package repositories

import (
	"context"
	"io"
	"time"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

// GenerationBackend produces structured minutes as raw JSON text
type GenerationBackend interface {
	GenerateMinutes(ctx context.Context, req entities.GenerationRequest) (string, error)
}

// BlobStorage stores exported files
type BlobStorage interface {
	// Upload stores data at path and returns a URL for it
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// Transcriber turns a recorded voice note into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// RateLimiter grants at most one attempt per key within a window
type RateLimiter interface {
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
}
