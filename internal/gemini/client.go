package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion = "v1beta"

	TransformModel = "gemini-2.5-flash-image"
	GenerateModel  = "gemini-1.5-flash"
)

var (
	ErrMissingAPIKey     = errors.New("gemini: missing api key")
	ErrNoImage           = errors.New("gemini: no image returned")
	ErrMalformedResponse = errors.New("gemini: malformed response")
)

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API %s: %s", e.Status, e.Body)
}

type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
}

type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *http.Client
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: httpClient,
	}
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// GenerateImage performs exactly one generateContent call and returns the first
// inline image of the first candidate. A response without an image yields
// ErrNoImage so callers can tell a refusal apart from a transport failure.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	outcome, err := c.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if outcome.Kind != OutcomeSucceeded {
		if outcome.Reason != "" {
			return nil, fmt.Errorf("%w (%s)", ErrNoImage, outcome.Reason)
		}
		return nil, ErrNoImage
	}
	return outcome.Image, nil
}

// Generate is GenerateImage without collapsing the empty outcome into an error.
func (c *Client) Generate(ctx context.Context, req ImageRequest) (Outcome, error) {
	if !c.Configured() {
		return Outcome{}, ErrMissingAPIKey
	}

	model := req.Model
	if model == "" {
		model = TransformModel
	}

	parts := []part{{Text: req.Prompt}}
	if len(req.Image) > 0 {
		mime := req.MimeType
		if mime == "" {
			mime = defaultImageMime
		}
		parts = append(parts, part{InlineData: &blob{
			MimeType: mime,
			Data:     base64.StdEncoding.EncodeToString(req.Image),
		}})
	}

	jsonData, err := json.Marshal(generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return Outcome{}, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       providerMessage(body),
		}
	}

	return Decode(body)
}

// providerMessage prefers the structured error.message over the raw body.
func providerMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(body))
}
