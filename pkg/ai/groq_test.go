package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/pkg/config"
)

func testRequest() entities.GenerationRequest {
	return entities.GenerationRequest{
		ProjectName: "Apollo",
		Date:        "2024-05-01",
		Discussions: []entities.RawDiscussion{{Topic: "API delay", Notes: "Vendor blocked"}},
		ActionItems: []entities.RawActionItem{{Task: "Draft spec", ResponsiblePerson: "Bob"}},
	}
}

func TestGenerateMinutes_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}

		var payload ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Model != "test-model" || payload.ResponseFormat == nil || payload.ResponseFormat.Type != "json_object" {
			t.Fatalf("unexpected request %#v", payload)
		}
		if len(payload.Messages) != 2 || !strings.Contains(payload.Messages[1].Content, "API delay") {
			t.Fatalf("prompt should carry the discussions: %#v", payload.Messages)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"discussions":[]}`}},
			},
		})
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL + "/", Model: "test-model"})
	out, err := client.GenerateMinutes(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("GenerateMinutes failed: %v", err)
	}
	if out != `{"discussions":[]}` {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestGenerateMinutes_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "k", BaseURL: ts.URL})
	if _, err := client.GenerateMinutes(context.Background(), testRequest()); err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestGenerateMinutes_RespectsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewGroqClient(&config.GroqConfig{APIKey: "k", BaseURL: ts.URL})
	if _, err := client.GenerateMinutes(ctx, testRequest()); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestBuildMinutesPrompt(t *testing.T) {
	tests := []struct {
		name string
		req  func(*entities.GenerationRequest)
		want []string
	}{
		{
			name: "with attendees",
			req: func(r *entities.GenerationRequest) {
				r.AttendeeNames = []string{"Ann Lee", "Bob Stone"}
				r.ExternalAttendees = "Dan (Acme)"
			},
			want: []string{"Project: Apollo", "Internal Attendees: Ann Lee, Bob Stone", "External Attendees: Dan (Acme)", "1. Topic: API delay", "Vendor blocked", "- Draft spec (Bob, )"},
		},
		{
			name: "without attendees",
			req:  func(*entities.GenerationRequest) {},
			want: []string{"Internal Attendees: None", "External Attendees: None"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.req(&req)
			prompt := BuildMinutesPrompt(req)
			for _, want := range tt.want {
				if !strings.Contains(prompt, want) {
					t.Errorf("prompt missing %q:\n%s", want, prompt)
				}
			}
		})
	}
}
