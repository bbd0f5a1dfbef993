package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxReplyBytes bounds how much of a provider reply is read.
const maxReplyBytes = 64 << 10

// HTTPEnricher posts {code, language} to a remote analyze endpoint.
type HTTPEnricher struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPEnricher creates an enricher for url. A zero timeout leaves bounding to the caller's context.
func NewHTTPEnricher(url, apiKey string, timeout time.Duration) *HTTPEnricher {
	return &HTTPEnricher{url: url, apiKey: apiKey, client: &http.Client{Timeout: timeout}}
}

func (h *HTTPEnricher) Enrich(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
	resp, err := h.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("call analyze endpoint: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("read reply: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("analyze endpoint returned %d", resp.StatusCode)
	}
	return ParseReply(string(raw))
}
