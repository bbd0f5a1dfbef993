// Package enrichment derives tags and a one-line summary from snippet source.
//
// Enrichment is best-effort: callers substitute an empty result on any error.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable is returned when no enrichment provider is configured.
	ErrUnavailable = errors.New("enrichment unavailable")
	// ErrMalformedReply is returned when the provider reply contains no usable JSON object.
	ErrMalformedReply = errors.New("malformed enrichment reply")
)

// Request is the input of an enrichment call.
type Request struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Result is a successful enrichment.
type Result struct {
	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`
}

// Enricher produces metadata for a snippet. One attempt per call; no internal retry.
type Enricher interface {
	Enrich(ctx context.Context, req Request) (Result, error)
}

// Disabled always fails with ErrUnavailable.
type Disabled struct{}

func (Disabled) Enrich(context.Context, Request) (Result, error) {
	return Result{}, ErrUnavailable
}

// BuildPrompt renders the instruction sent to text-generation backends.
func BuildPrompt(req Request) string {
	return fmt.Sprintf(`Analyze this %s code snippet and provide:
1. Extract 3-5 relevant tags (e.g., "JavaScript", "React", "authentication")
2. Write a concise 1-sentence summary (max 100 chars)

Return your response in this exact JSON format:
{
  "tags": ["tag1", "tag2", "tag3"],
  "summary": "A brief summary of what this code does"
}

Code:
%s`, req.Language, req.Code)
}

// ParseReply extracts a Result from a provider reply. It accepts a bare JSON object,
// an object inside a markdown code fence, or an object embedded in prose.
func ParseReply(text string) (Result, error) {
	text = strings.TrimSpace(text)
	candidates := []string{text}
	if fenced, ok := fencedBlock(text); ok {
		candidates = append(candidates, fenced)
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		candidates = append(candidates, text[start:end+1])
	}
	for _, c := range candidates {
		if !strings.HasPrefix(c, "{") {
			continue
		}
		var raw struct {
			Tags    []string `json:"tags"`
			Summary *string  `json:"summary"`
		}
		if err := json.Unmarshal([]byte(c), &raw); err != nil {
			continue
		}
		res := Result{Tags: cleanTags(raw.Tags)}
		if raw.Summary != nil {
			res.Summary = strings.TrimSpace(*raw.Summary)
		}
		return res, nil
	}
	return Result{}, ErrMalformedReply
}

func fencedBlock(text string) (string, bool) {
	open := strings.Index(text, "```")
	if open < 0 {
		return "", false
	}
	rest := text[open+3:]
	// skip the info string, e.g. "json"
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
