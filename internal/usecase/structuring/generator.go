package structuring

import (
	"context"
	"time"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/domain/repositories"
	"go.uber.org/zap"
)

// Source tells which engine produced the structured content
type Source string

const (
	SourceBackend Source = "backend"
	SourceRules   Source = "rules"
)

const (
	NoticeOffline  = "Generation service not configured; minutes were structured offline."
	NoticeFallback = "Generation service unavailable; minutes were structured offline."
)

// DefaultTimeout bounds a backend call when none is configured
const DefaultTimeout = 30 * time.Second

// Result is the structured content for one generation attempt
type Result struct {
	Discussions []entities.StructuredDiscussion `json:"discussions"`
	ActionItems []entities.StructuredActionItem `json:"action_items"`
	Source      Source                          `json:"source"`
	Notice      string                          `json:"notice,omitempty"`
}

// Generator structures meetings with an optional backend and the rule engine
// as fallback. Generate never returns an error.
type Generator struct {
	backend repositories.GenerationBackend
	timeout time.Duration
	logger  *zap.Logger
}

// NewGenerator creates a generator. A nil backend means offline mode.
func NewGenerator(backend repositories.GenerationBackend, timeout time.Duration, logger *zap.Logger) *Generator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{backend: backend, timeout: timeout, logger: logger}
}

type backendReply struct {
	text string
	err  error
}

// Generate structures the request. Manual action items always come first.
func (g *Generator) Generate(ctx context.Context, req entities.GenerationRequest) Result {
	manual := NormalizeActionItems(req.ActionItems)

	if g.backend == nil {
		return g.offline(req, manual, NoticeOffline)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// Buffered so a late reply does not block the sender once we have moved on.
	replies := make(chan backendReply, 1)
	go func() {
		text, err := g.backend.GenerateMinutes(callCtx, req)
		replies <- backendReply{text: text, err: err}
	}()

	select {
	case reply := <-replies:
		if reply.err != nil {
			g.logger.Warn("⚠️ Generation backend failed, using rules",
				zap.Error(reply.err),
			)
			return g.offline(req, manual, NoticeFallback)
		}

		outcome := ValidateResponse(reply.text, len(req.Discussions))
		if outcome.Kind == OutcomeMalformed {
			g.logger.Warn("⚠️ Generation backend returned malformed minutes, using rules",
				zap.String("reason", outcome.Reason),
			)
			return g.offline(req, manual, NoticeFallback)
		}

		items := append(manual, outcome.ActionItems...)
		if len(items) == 0 {
			items = InferActionItems(req.Discussions)
		}
		g.logger.Info("✅ Minutes generated by backend",
			zap.Int("discussions", len(outcome.Discussions)),
			zap.Int("action_items", len(items)),
		)
		return Result{
			Discussions: outcome.Discussions,
			ActionItems: items,
			Source:      SourceBackend,
		}

	case <-callCtx.Done():
		g.logger.Warn("⏱️ Generation backend timed out, using rules",
			zap.Duration("timeout", g.timeout),
			zap.Error(callCtx.Err()),
		)
		return g.offline(req, manual, NoticeFallback)
	}
}

func (g *Generator) offline(req entities.GenerationRequest, manual []entities.StructuredActionItem, notice string) Result {
	items := manual
	if len(items) == 0 {
		items = InferActionItems(req.Discussions)
	}
	return Result{
		Discussions: StructureAll(req.Discussions),
		ActionItems: items,
		Source:      SourceRules,
		Notice:      notice,
	}
}
