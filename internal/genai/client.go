package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the public Generative Language API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const defaultTimeout = 120 * time.Second

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the Files and generateContent endpoints over REST.
// It performs no retries of its own; callers decide what is retryable.
type Client struct {
	http *resty.Client
}

// New builds a Client. An empty API key is accepted: every call will then be
// rejected upstream.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("x-goog-api-key", opts.APIKey)
	return &Client{http: rc}
}

// UploadFile stores data with the Files API using the resumable protocol and
// returns the file handle to reference in GenerateContent.
func (c *Client) UploadFile(ctx context.Context, data []byte, mimeType, displayName string) (File, error) {
	meta := map[string]any{"file": map[string]string{"display_name": displayName}}
	start, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Goog-Upload-Protocol", "resumable").
		SetHeader("X-Goog-Upload-Command", "start").
		SetHeader("X-Goog-Upload-Header-Content-Length", strconv.Itoa(len(data))).
		SetHeader("X-Goog-Upload-Header-Content-Type", mimeType).
		SetHeader("Content-Type", "application/json").
		SetBody(meta).
		Post("/upload/v1beta/files")
	if err != nil {
		return File{}, fmt.Errorf("start upload: %w", err)
	}
	if start.IsError() {
		return File{}, newAPIError(start.StatusCode(), start.Body())
	}
	uploadURL := start.Header().Get("X-Goog-Upload-URL")
	if uploadURL == "" {
		return File{}, fmt.Errorf("start upload: missing upload url")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Goog-Upload-Offset", "0").
		SetHeader("X-Goog-Upload-Command", "upload, finalize").
		SetHeader("Content-Type", mimeType).
		SetBody(data).
		Post(uploadURL)
	if err != nil {
		return File{}, fmt.Errorf("upload bytes: %w", err)
	}
	if resp.IsError() {
		return File{}, newAPIError(resp.StatusCode(), resp.Body())
	}
	var out uploadResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return File{}, fmt.Errorf("decode upload response: %w", err)
	}
	if out.File.URI == "" {
		return File{}, fmt.Errorf("upload response without file uri")
	}
	if out.File.MIMEType == "" {
		out.File.MIMEType = mimeType
	}
	return out.File, nil
}

// GenerateContent runs one generation against model and returns the text of
// the first candidate.
func (c *Client) GenerateContent(ctx context.Context, model string, req GenerateRequest) (string, error) {
	parts := make([]Part, 0, 2)
	if req.File != nil {
		parts = append(parts, Part{FileData: &FileData{MIMEType: req.File.MIMEType, FileURI: req.File.URI}})
	}
	parts = append(parts, Part{Text: req.Prompt})
	body := generateContentRequest{Contents: []Content{{Role: "user", Parts: parts}}}
	if req.MaxOutputTokens > 0 || req.Temperature != nil {
		body.GenerationConfig = &GenerationConfig{MaxOutputTokens: req.MaxOutputTokens, Temperature: req.Temperature}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/v1beta/models/" + url.PathEscape(model) + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", model, err)
	}
	if resp.IsError() {
		return "", newAPIError(resp.StatusCode(), resp.Body())
	}
	var out generateContentResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return out.text()
}

func (r generateContentResponse) text() (string, error) {
	if len(r.Candidates) == 0 {
		if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w (blocked: %s)", ErrEmptyResponse, r.PromptFeedback.BlockReason)
		}
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
