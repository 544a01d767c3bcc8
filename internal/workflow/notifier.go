package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// AnyOrigin leaves the receiving origin unrestricted.
const AnyOrigin = "*"

// TargetOriginHeader tells the host bridge which origin may receive the message.
const TargetOriginHeader = "X-Target-Origin"

// HostNotifier delivers messages to the page that embeds the configurator.
type HostNotifier interface {
	Notify(ctx context.Context, msg DesignReadyMessage) error
}

// HTTPNotifier posts the message as JSON to a host callback.
type HTTPNotifier struct {
	callbackURL  string
	targetOrigin string
	httpClient   *http.Client
}

func NewHTTPNotifier(callbackURL, targetOrigin string, httpClient *http.Client) *HTTPNotifier {
	if targetOrigin == "" {
		targetOrigin = AnyOrigin
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPNotifier{callbackURL: callbackURL, targetOrigin: targetOrigin, httpClient: httpClient}
}

func (n *HTTPNotifier) Notify(ctx context.Context, msg DesignReadyMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TargetOriginHeader, n.targetOrigin)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("host callback returned status %d", resp.StatusCode)
	}
	return nil
}

// WriterNotifier writes each message as one JSON line.
type WriterNotifier struct {
	w io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(_ context.Context, msg DesignReadyMessage) error {
	return json.NewEncoder(n.w).Encode(msg)
}
