// Package numbering assigns human readable identifiers and per-project
// versions to meeting records at save time.
package numbering

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/johnquangdev/mom-generator/internal/domain/repositories"
	"go.uber.org/zap"
)

// DefaultScanLimit is how many recent identifiers are inspected
const DefaultScanLimit = 100

// Allocator computes the next identifier and version by scanning the store.
// It does not reserve anything; collisions surface when the document is
// written and the caller allocates again.
type Allocator struct {
	store     repositories.DocumentStore
	prefix    string
	scanLimit int
	pattern   *regexp.Regexp
	logger    *zap.Logger
}

// NewAllocator creates an allocator for identifiers of the form PREFIX_NNN
func NewAllocator(store repositories.DocumentStore, prefix string, scanLimit int, logger *zap.Logger) *Allocator {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{
		store:     store,
		prefix:    prefix,
		scanLimit: scanLimit,
		pattern:   regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(prefix) + `_(\d+)$`),
		logger:    logger,
	}
}

// Format renders a sequence number as an identifier, zero padded to 3 digits
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s_%03d", prefix, n)
}

// NextIdentifier returns max(sequence)+1 over the most recent identifiers.
// Read failures are logged and yield PREFIX_001.
func (a *Allocator) NextIdentifier(ctx context.Context) string {
	ids, err := a.store.RecentIdentifiers(ctx, a.scanLimit)
	if err != nil {
		a.logger.Warn("⚠️ Failed to scan identifiers, starting from 1",
			zap.String("prefix", a.prefix),
			zap.Error(err),
		)
		return Format(a.prefix, 1)
	}

	max := 0
	for _, id := range ids {
		m := a.pattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return Format(a.prefix, max+1)
}

// NextVersion returns the latest version of the project plus one.
// Read failures are logged and yield 1.
func (a *Allocator) NextVersion(ctx context.Context, projectID string) int {
	latest, err := a.store.LatestVersion(ctx, projectID)
	if err != nil {
		a.logger.Warn("⚠️ Failed to read latest version, using 1",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		return 1
	}
	if latest < 0 {
		latest = 0
	}
	return latest + 1
}
