package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/pkg/config"
)

const defaultGroqModel = "llama-3.1-70b-versatile"

// GroqClient is a minimal client for the Groq chat completion API
type GroqClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGroqClient creates a Groq client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGroqClient(cfg *config.GroqConfig) *GroqClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey, base, model = cfg.APIKey, cfg.BaseURL, cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if base == "" {
		base = os.Getenv("GROQ_API_URL")
	}
	if base == "" {
		base = "https://api.groq.com"
	}
	if model == "" {
		model = defaultGroqModel
	}

	// Deadlines come from the caller's context.
	return &GroqClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

// Enabled reports whether an API key is configured
func (g *GroqClient) Enabled() bool {
	return g != nil && g.apiKey != ""
}

// ChatMessage is one message of a chat completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat asks the model for a specific output format
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []ChatMessage   `json:"messages,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const minutesSystemPrompt = `You write professional minutes of meeting.
Return ONLY a JSON object with this shape:
{"discussions":[{"topic":"","markup":""}],"actionItems":[{"task":"","responsiblePerson":"","deadline":""}]}
Rules:
- One discussion per input topic, same order, same topic text.
- "markup" is HTML using only <b>, <br/> and the bullet "• ", with the sections
  Summary:, Key Points:, Decisions Taken:, Next Steps:.
- Keep every input note line as a key point.
- Only add action items that are clearly implied; use "TBD" when the owner or deadline is unknown.`

// BuildMinutesPrompt renders the user prompt for a generation request
func BuildMinutesPrompt(req entities.GenerationRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Project: %s\n", req.ProjectName)
	fmt.Fprintf(&sb, "Internal Attendees: %s\n", orNone(strings.Join(req.AttendeeNames, ", ")))
	fmt.Fprintf(&sb, "External Attendees: %s\n", orNone(strings.TrimSpace(req.ExternalAttendees)))
	fmt.Fprintf(&sb, "Date: %s\n", req.Date)
	if req.Agenda != "" {
		fmt.Fprintf(&sb, "Agenda: %s\n", req.Agenda)
	}
	sb.WriteString("\nDiscussions:\n")
	for i, d := range req.Discussions {
		fmt.Fprintf(&sb, "%d. Topic: %s\nNotes:\n%s\n\n", i+1, d.Topic, d.Notes)
	}
	if len(req.ActionItems) > 0 {
		sb.WriteString("Already recorded action items (do not repeat):\n")
		for _, a := range req.ActionItems {
			fmt.Fprintf(&sb, "- %s (%s, %s)\n", a.Task, a.ResponsiblePerson, a.Deadline)
		}
	}
	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// GenerateMinutes asks the model to structure a meeting and returns the raw
// assistant content
func (g *GroqClient) GenerateMinutes(ctx context.Context, req entities.GenerationRequest) (string, error) {
	return g.complete(ctx, []ChatMessage{
		{Role: "system", Content: minutesSystemPrompt},
		{Role: "user", Content: BuildMinutesPrompt(req)},
	})
}

func (g *GroqClient) complete(ctx context.Context, messages []ChatMessage) (string, error) {
	reqBody := ChatRequest{
		Model:          g.model,
		Messages:       messages,
		Temperature:    0.2,
		MaxTokens:      4000,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("groq returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return cr.Choices[0].Message.Content, nil
}
