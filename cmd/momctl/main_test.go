package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
)

const draft = `{
  "meta": {
    "project_id": "p-1",
    "project_name": "Apollo",
    "meeting_date": "2024-05-01",
    "meeting_start_time": "10:00",
    "meeting_end_time": "11:00",
    "attendees": ["u-1"],
    "attendee_names": ["Ann Lee"]
  },
  "input_discussions": [
    {"topic": "API delay", "notes": "The vendor API is late. Ann will call the vendor by Friday"}
  ],
  "input_action_items": [
    {"task": "update the roadmap.", "responsible_person": "Bob", "deadline": "2024-05-10"}
  ]
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateThenRender(t *testing.T) {
	generated, err := run(t, draft, "generate")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var record entities.MeetingRecord
	if err := json.Unmarshal([]byte(generated), &record); err != nil {
		t.Fatalf("decode generated record: %v\n%s", err, generated)
	}
	if record.State != entities.StateGenerated || len(record.StructuredDiscussions) != 1 {
		t.Fatalf("unexpected record state %q with %d discussions", record.State, len(record.StructuredDiscussions))
	}
	if record.StructuredActionItems[0].Task != "Update the roadmap" {
		t.Fatalf("manual task not polished: %q", record.StructuredActionItems[0].Task)
	}

	share, err := run(t, generated, "render", "-f", "share")
	if err != nil {
		t.Fatalf("render share: %v", err)
	}
	for _, want := range []string{"Discussion:", "1. API delay", "Next Action Plan:", "Update the roadmap (Bob, due 2024-05-10)"} {
		if !strings.Contains(share, want) {
			t.Errorf("share text missing %q:\n%s", want, share)
		}
	}

	printed, err := run(t, generated, "render", "-f", "print")
	if err != nil {
		t.Fatalf("render print: %v", err)
	}
	if !strings.Contains(printed, "Page 1 of") {
		t.Errorf("print output missing footer:\n%s", printed)
	}

	pdfPath := filepath.Join(t.TempDir(), "minutes.pdf")
	if _, err := run(t, generated, "render", "-f", "pdf", "-o", pdfPath); err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("pdf not written: %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"generate incomplete draft", `{"meta": {"project_id": "p-1"}}`, []string{"generate"}, "not ready"},
		{"render before generate", draft, []string{"render"}, "not been generated"},
		{"unknown format", `{"state": "generated"}`, []string{"render", "-f", "docx"}, "unknown format"},
		{"bad json", `{`, []string{"render"}, "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
