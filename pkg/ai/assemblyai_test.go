package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/johnquangdev/mom-generator/pkg/config"
)

func TestTranscribe_Success(t *testing.T) {
	// Mock AssemblyAI server: upload, submit and poll all resolve immediately
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/upload") {
			io.Copy(io.Discard, r.Body)
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.test/audio"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":     "transcript-123",
			"status": "completed",
			"text":   "  Vendor is blocked on the spec  ",
		})
	}))
	defer ts.Close()

	client := NewAssemblyAIClient(&config.AssemblyAIConfig{APIKey: "test-key"}, aai.WithBaseURL(ts.URL))
	text, err := client.Transcribe(context.Background(), strings.NewReader("fake audio"))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "Vendor is blocked on the spec" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTranscribe_Disabled(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "")
	client := NewAssemblyAIClient(&config.AssemblyAIConfig{})
	if client.Enabled() {
		t.Fatal("client without key should be disabled")
	}
	if _, err := client.Transcribe(context.Background(), strings.NewReader("x")); err == nil {
		t.Fatal("expected error without api key")
	}
}
