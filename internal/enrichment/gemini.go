package enrichment

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiEnricher asks a Gemini model for tags and a summary.
type GeminiEnricher struct {
	cli   *genai.Client
	model string
}

// NewGeminiEnricher creates a client for the Gemini API using apiKey.
func NewGeminiEnricher(ctx context.Context, apiKey, model string) (*GeminiEnricher, error) {
	return newGeminiEnricher(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}, model)
}

func newGeminiEnricher(ctx context.Context, cfg *genai.ClientConfig, model string) (*GeminiEnricher, error) {
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiEnricher{cli: cli, model: model}, nil
}

// Name identifies the backend and model in logs.
func (g *GeminiEnricher) Name() string { return "gemini:" + g.model }

func (g *GeminiEnricher) Enrich(ctx context.Context, req Request) (Result, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: BuildPrompt(req)}}}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0.7),
			MaxOutputTokens:  200,
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return Result{}, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Result{}, ErrMalformedReply
	}
	return ParseReply(resp.Candidates[0].Content.Parts[0].Text)
}
