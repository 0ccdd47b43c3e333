// Package gemini is the adapter to the Google Generative Language API. It
// turns a prompt plus generation settings into one generateContent call and
// hands back the response text, or a typed error the service layer knows
// how to present.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"goa.design/clue/log"
)

// DefaultBaseURL is the production Generative Language API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultMaxOutputTokens bounds response length when the config does not
// override it.
const DefaultMaxOutputTokens = 8192

// UpstreamError is returned by Complete when the API call itself fails:
// transport errors, non-200 statuses, or unusable response bodies. Detail is
// plain text fit for relaying to the caller.
type UpstreamError struct {
	Detail string
}

func (e *UpstreamError) Error() string {
	return e.Detail
}

// Options configures a Client.
type Options struct {
	// APIKey authenticates against the API. Required.
	APIKey string
	// Model is the selected model for calls that do not name one.
	// Empty means DefaultModel.
	Model string
	// BaseURL overrides the API endpoint, mainly for tests and proxies.
	// Empty means DefaultBaseURL.
	BaseURL string
	// MaxOutputTokens bounds the response length. Zero means
	// DefaultMaxOutputTokens.
	MaxOutputTokens int
	// Timeout bounds each API call. Zero means no timeout; a call can then
	// block the request loop until the upstream responds.
	Timeout time.Duration
	// HTTPClient overrides the HTTP client, mainly for tests. When set,
	// Timeout is ignored in favor of the client's own.
	HTTPClient *http.Client
}

// CompletionRequest is one prompt to complete.
type CompletionRequest struct {
	// Prompt is the full text to send, system prompt already applied.
	Prompt string
	// Temperature is the sampling temperature, 0.0 to 1.0.
	Temperature float64
	// Model optionally routes this call to a model other than the selected
	// one. A name outside the catalog fails with *UnknownModelError.
	Model string
}

// Client calls the generateContent endpoint. It is safe for sequential use
// from the request loop; it holds no mutable state.
type Client struct {
	apiKey          string
	model           string
	baseURL         string
	maxOutputTokens int
	httpClient      *http.Client
}

// New validates opts and returns a ready Client. A non-nil error here is
// what puts the server into degraded mode at startup.
func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	base = strings.TrimRight(base, "/")

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := opts.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		apiKey:          opts.APIKey,
		model:           model,
		baseURL:         base,
		maxOutputTokens: maxTokens,
		httpClient:      httpClient,
	}, nil
}

// Model returns the selected model name.
func (c *Client) Model() string {
	return c.model
}

// Request/response shapes of the generateContent endpoint.

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type generateResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
}

// Complete sends one prompt and returns the response text. Failures are
// *UnknownModelError for a model outside the catalog and *UpstreamError for
// everything the API or the network did wrong. One attempt, no retries.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	if model != c.model && !KnownModel(model) {
		return "", &UnknownModelError{Model: model}
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", &UpstreamError{Detail: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &UpstreamError{Detail: fmt.Sprintf("failed to build request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &UpstreamError{Detail: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return "", &UpstreamError{Detail: fmt.Sprintf("upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &UpstreamError{Detail: fmt.Sprintf("invalid upstream response: %v", err)}
	}
	if len(out.Candidates) == 0 {
		return "", &UpstreamError{Detail: "upstream returned no candidates"}
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return "", &UpstreamError{Detail: "upstream returned an empty response"}
	}

	totalTokens := 0
	if out.UsageMetadata != nil {
		totalTokens = out.UsageMetadata.TotalTokenCount
	}
	log.Debugf(ctx, "gemini generateContent: model=%s tokens=%d duration=%s", model, totalTokens, time.Since(start).Round(time.Millisecond))

	return text.String(), nil
}
