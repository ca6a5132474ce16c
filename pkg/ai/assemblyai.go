package ai

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/johnquangdev/mom-generator/pkg/config"
)

// AssemblyAIClient transcribes recorded voice notes with the official SDK
type AssemblyAIClient struct {
	apiKey   string
	language string
	sdk      *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig, opts ...aai.ClientOption) *AssemblyAIClient {
	var apiKey, language string
	if cfg != nil {
		apiKey, language = cfg.APIKey, cfg.LanguageCode
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	if language == "" {
		language = "en"
	}

	opts = append([]aai.ClientOption{aai.WithAPIKey(apiKey)}, opts...)
	return &AssemblyAIClient{
		apiKey:   apiKey,
		language: language,
		sdk:      aai.NewClientWithOptions(opts...),
	}
}

// Enabled reports whether an API key is configured
func (c *AssemblyAIClient) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Transcribe uploads the audio and waits for the finished transcript text
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("assemblyai api key not configured")
	}

	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(c.language),
		Punctuate:    aai.Bool(true),
		FormatText:   aai.Bool(true),
	}

	transcript, err := c.sdk.Transcripts.TranscribeFromReader(ctx, audio, params)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe voice note: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		return "", fmt.Errorf("assemblyai error: %s", aai.ToString(transcript.Error))
	}

	return strings.TrimSpace(aai.ToString(transcript.Text)), nil
}
