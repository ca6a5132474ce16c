package opcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyOperationID   KeyContext = "operation_id"
	keyOperationType KeyContext = "operation_type"
	keyStartTime     KeyContext = "operation_start_time"
	keyPerformer     KeyContext = "performer"
)

// Performer is the user on whose behalf an operation runs
type Performer struct {
	ID   string
	Name string
	Role string
}

// Metadata holds the metadata of one operation
type Metadata struct {
	OperationID   uuid.UUID
	OperationType string
	StartTime     time.Time
	Performer     Performer
}

// Begin derives an operation context with metadata and a timeout
func Begin(parentCtx context.Context, operationType string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyOperationID, uuid.New())
	ctx = context.WithValue(ctx, keyOperationType, operationType)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// WithPerformer attaches the acting user
func WithPerformer(ctx context.Context, p Performer) context.Context {
	return context.WithValue(ctx, keyPerformer, p)
}

// GetPerformer extracts the acting user from context
func GetPerformer(ctx context.Context) (Performer, bool) {
	p, ok := ctx.Value(keyPerformer).(Performer)
	return p, ok
}

// GetOperationID extracts operation ID from context
func GetOperationID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyOperationID).(uuid.UUID)
	return id, ok
}

// GetMetadata extracts all operation metadata from context
func GetMetadata(ctx context.Context) *Metadata {
	id, _ := GetOperationID(ctx)
	opType, _ := ctx.Value(keyOperationType).(string)
	start, _ := ctx.Value(keyStartTime).(time.Time)
	performer, _ := GetPerformer(ctx)

	return &Metadata{
		OperationID:   id,
		OperationType: opType,
		StartTime:     start,
		Performer:     performer,
	}
}

// IsRetryableError checks if an error should trigger a retry
// Retryable errors include: network errors, timeouts, deadlocks, rate limits
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Database deadlock/lock errors (Postgres)
	if strings.Contains(errStr, "deadlock") ||
		strings.Contains(errStr, "40001") || // serialization_failure
		strings.Contains(errStr, "40p01") { // deadlock_detected
		return true
	}

	// Object storage throttling and server errors
	if strings.Contains(errStr, "slowdown") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
