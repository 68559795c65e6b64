// Package genai provides a typed facade over the Gemini generative-media
// HTTP API so the orchestration layer can focus on sequencing capability
// calls instead of wire formats.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"server/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey             string
	BaseURL            string
	AnalysisModel      string
	ImageEditModel     string
	ImageModel         string
	VideoModel         string
	AdvancedVideoModel string
	HTTPClient         *http.Client
	Logger             zerolog.Logger
}

// Client wraps the remote generative operations as typed calls. Every
// operation checks that an API key is configured before any network attempt
// and fails fast with domain.ErrServiceUnavailable when it is not.
type Client struct {
	apiKey             string
	baseURL            string
	analysisModel      string
	imageEditModel     string
	imageModel         string
	videoModel         string
	advancedVideoModel string
	httpClient         *http.Client
	breaker            *gobreaker.CircuitBreaker[*httpResult]
	logger             zerolog.Logger
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with sensible timeouts is
// created.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breaker := gobreaker.NewCircuitBreaker[*httpResult](gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		apiKey:             strings.TrimSpace(opts.APIKey),
		baseURL:            baseURL,
		analysisModel:      orDefault(opts.AnalysisModel, "gemini-2.5-flash"),
		imageEditModel:     orDefault(opts.ImageEditModel, "gemini-2.5-flash-image-preview"),
		imageModel:         orDefault(opts.ImageModel, "imagen-4.0-generate-001"),
		videoModel:         orDefault(opts.VideoModel, "veo-3.0-generate-001"),
		advancedVideoModel: orDefault(opts.AdvancedVideoModel, "veo-3.1-generate-001"),
		httpClient:         httpClient,
		breaker:            breaker,
		logger:             opts.Logger,
	}, nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) ready() error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: missing API key", domain.ErrServiceUnavailable)
	}
	return nil
}

// --- wire types shared by the operations ---

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
	ResponseSchema     any      `json:"responseSchema,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

type httpResult struct {
	status      int
	body        []byte
	contentType string
}

// invoke posts a JSON payload to the given API path and decodes the JSON
// response into out.
func (c *Client) invoke(ctx context.Context, path string, payload any, out any) error {
	res, err := c.post(ctx, path, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*httpResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + path
	res, err := c.roundTrip(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if res.status >= http.StatusBadRequest {
		return nil, apiError(res)
	}
	return res, nil
}

// roundTrip performs one HTTP exchange through the circuit breaker. Only
// transport failures and 5xx responses count against the breaker; client
// errors pass through untouched.
func (c *Client) roundTrip(ctx context.Context, method, endpoint string, body io.Reader) (*httpResult, error) {
	return c.breaker.Execute(func() (*httpResult, error) {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		q := req.URL.Query()
		q.Set("key", c.apiKey)
		req.URL.RawQuery = q.Encode()
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("invoke gemini: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read gemini response: %w", err)
		}
		result := &httpResult{
			status:      resp.StatusCode,
			body:        data,
			contentType: resp.Header.Get("Content-Type"),
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, apiError(result)
		}
		return result, nil
	})
}

func apiError(res *httpResult) error {
	var apiErr geminiErrorResponse
	if err := json.Unmarshal(res.body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("gemini status %d: %s", res.status, apiErr.Error.Message)
	}
	if msg := strings.TrimSpace(string(res.body)); msg != "" {
		return fmt.Errorf("gemini status %d: %s", res.status, msg)
	}
	return fmt.Errorf("gemini status %d", res.status)
}

// firstText returns the first non-empty text part of the first candidate.
func firstText(resp *geminiGenerateContentResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

func inlinePart(blob *domain.MediaBlob) geminiPart {
	return geminiPart{InlineData: &geminiInlineData{
		MimeType: blob.MimeType,
		Data:     encodeBase64(blob.Data),
	}}
}
