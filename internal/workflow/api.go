package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

const TransformPath = "/api/transform-gemini"

// TransformAPI issues a single transform call. A non-2xx answer is returned
// as a *RequestError.
type TransformAPI interface {
	Transform(ctx context.Context, sub Submission) (*TransformResult, error)
}

// RequestError carries the server's error text, if it sent one.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

type HTTPTransformAPI struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPTransformAPI(baseURL string, httpClient *http.Client) *HTTPTransformAPI {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPTransformAPI{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (a *HTTPTransformAPI) Transform(ctx context.Context, sub Submission) (*TransformResult, error) {
	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+TransformPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error string `json:"error"`
		}
		msg := "Request failed"
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: msg}
	}

	var result TransformResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

func (r *TransformResult) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = TransformResult{
		ID:    stringField(fields, "id"),
		URL:   stringField(fields, "url"),
		Mime:  stringField(fields, "mime"),
		B64:   stringField(fields, "b64"),
		Style: stringField(fields, "style"),
	}
	return nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func encodeSubmission(sub Submission) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, sub.File.Name))
	mime := sub.File.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}
	h.Set("Content-Type", mime)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(sub.File.Data); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("style", sub.Style); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("customPrompt", sub.CustomPrompt); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
