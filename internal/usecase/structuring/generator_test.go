package structuring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/pkg/markup"
	"go.uber.org/zap"
)

type fakeBackend struct {
	reply string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeBackend) GenerateMinutes(ctx context.Context, _ entities.GenerationRequest) (string, error) {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.reply, f.err
}

func apiDelayRequest() entities.GenerationRequest {
	return entities.GenerationRequest{
		ProjectName: "Apollo",
		Date:        "2024-05-01",
		Discussions: []entities.RawDiscussion{{Topic: "API delay", Notes: "Vendor blocked\nWaiting for spec"}},
	}
}

func TestGenerateOfflineScenario(t *testing.T) {
	g := NewGenerator(nil, time.Second, zap.NewNop())
	res := g.Generate(context.Background(), apiDelayRequest())

	if res.Source != SourceRules || res.Notice != NoticeOffline {
		t.Fatalf("expected offline rules result, got %q / %q", res.Source, res.Notice)
	}
	if len(res.Discussions) != 1 {
		t.Fatalf("expected 1 discussion, got %d", len(res.Discussions))
	}

	text := markup.PlainText(res.Discussions[0].Markup)
	for _, want := range []string{
		"• Vendor blocked",
		"• Waiting for spec",
		"Blockers highlighted; owners assigned to unblock.",
		"Critical API items prioritized for the next cycle.",
		"Backend/Integration team to finalize endpoints and share specs.",
		"Owners of blocked items to report unblock status before the next meeting.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in %q", want, text)
		}
	}

	if len(res.ActionItems) != 1 || !strings.Contains(res.ActionItems[0].Task, "API delay") {
		t.Fatalf("expected one action item for API delay, got %#v", res.ActionItems)
	}
}

func TestGenerateUsesBackendAndKeepsManualItemsFirst(t *testing.T) {
	backend := &fakeBackend{reply: "```json\n" + `{
		"discussions": [{"topic": "API delay", "markup": "<b>Summary:</b><br/>• ok"}],
		"actionItems": [{"task": "chase vendor.", "responsiblePerson": "Ann", "deadline": "TBD"}]
	}` + "\n```"}
	g := NewGenerator(backend, time.Second, zap.NewNop())

	req := apiDelayRequest()
	req.ActionItems = []entities.RawActionItem{{Task: "draft spec", ResponsiblePerson: "Bob", Deadline: "2024-05-10"}}
	res := g.Generate(context.Background(), req)

	if res.Source != SourceBackend || res.Notice != "" {
		t.Fatalf("expected backend result, got %q / %q", res.Source, res.Notice)
	}
	if len(res.ActionItems) != 2 {
		t.Fatalf("expected manual + backend items, got %#v", res.ActionItems)
	}
	if res.ActionItems[0].Task != "Draft spec" || res.ActionItems[1].Task != "Chase vendor" {
		t.Fatalf("unexpected order %#v", res.ActionItems)
	}
	if res.ActionItems[1].Deadline != "" {
		t.Fatalf("TBD deadline should be cleared, got %q", res.ActionItems[1].Deadline)
	}
}

func TestGenerateFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		timeout time.Duration
	}{
		{"transport error", &fakeBackend{err: errors.New("connection refused")}, time.Second},
		{"not json", &fakeBackend{reply: "sorry, I cannot help"}, time.Second},
		{"wrong topic count", &fakeBackend{reply: `{"discussions": [], "actionItems": []}`}, time.Second},
		{"late reply is ignored", &fakeBackend{reply: `{"discussions":[{"topic":"x","notes":"y"}]}`, delay: 200 * time.Millisecond}, 20 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.backend, tt.timeout, zap.NewNop())
			res := g.Generate(context.Background(), apiDelayRequest())

			if res.Source != SourceRules || res.Notice != NoticeFallback {
				t.Fatalf("expected fallback, got %q / %q", res.Source, res.Notice)
			}
			if len(res.Discussions) != 1 || !strings.Contains(res.Discussions[0].Markup, "Vendor blocked") {
				t.Fatalf("fallback should structure the raw notes, got %#v", res.Discussions)
			}
		})
	}
}
