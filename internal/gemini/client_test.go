package gemini_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fm-configurator/internal/gemini"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) (*gemini.Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := gemini.NewClient(gemini.Options{
		APIKey:     apiKey,
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	return client, &calls
}

func TestClient_GenerateImage_SendsPromptAndInlineImage(t *testing.T) {
	input := []byte{0xff, 0xd8, 0xff, 0xe0}
	output := base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	client, _ := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash-image:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		contents := body["contents"].([]any)
		parts := contents[0].(map[string]any)["parts"].([]any)
		require.Len(t, parts, 2)
		assert.Equal(t, "stylize me", parts[0].(map[string]any)["text"])
		inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
		assert.Equal(t, "image/jpeg", inline["mimeType"])
		assert.Equal(t, base64.StdEncoding.EncodeToString(input), inline["data"])

		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"here"},{"inlineData":{"mimeType":"image/png","data":"`+output+`"}}]}}]}`)
	})

	img, err := client.GenerateImage(context.Background(), gemini.ImageRequest{
		Model:    gemini.TransformModel,
		Prompt:   "stylize me",
		Image:    input,
		MimeType: "image/jpeg",
	})

	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	data, err := img.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestClient_GenerateImage_MissingKeyMakesNoCall(t *testing.T) {
	client, calls := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.GenerateImage(context.Background(), gemini.ImageRequest{Prompt: "x"})

	assert.ErrorIs(t, err, gemini.ErrMissingAPIKey)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestClient_GenerateImage_ZeroCandidates(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`)
	})

	_, err := client.GenerateImage(context.Background(), gemini.ImageRequest{Prompt: "x"})

	assert.ErrorIs(t, err, gemini.ErrNoImage)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestClient_GenerateImage_TextOnlyParts(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"I cannot do that"}]},"finishReason":"STOP"}]}`)
	})

	_, err := client.GenerateImage(context.Background(), gemini.ImageRequest{Prompt: "x"})

	assert.ErrorIs(t, err, gemini.ErrNoImage)
}

func TestClient_GenerateImage_ProviderError(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"API key not valid"}}`)
	})

	_, err := client.GenerateImage(context.Background(), gemini.ImageRequest{Prompt: "x"})

	var apiErr *gemini.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestClient_GenerateImage_MalformedPayload(t *testing.T) {
	client, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":"nope"}`)
	})

	_, err := client.GenerateImage(context.Background(), gemini.ImageRequest{Prompt: "x"})

	assert.ErrorIs(t, err, gemini.ErrMalformedResponse)
	assert.NotErrorIs(t, err, gemini.ErrNoImage)
}

func TestDecode_DefaultsMimeType(t *testing.T) {
	outcome, err := gemini.Decode([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"data":"QUJD"}}]}}]}`))

	require.NoError(t, err)
	assert.Equal(t, gemini.OutcomeSucceeded, outcome.Kind)
	assert.Equal(t, "image/png", outcome.Image.MimeType)
	assert.Equal(t, "QUJD", outcome.Image.Base64)
}

func TestDecode_OnlyFirstCandidateIsScanned(t *testing.T) {
	outcome, err := gemini.Decode([]byte(`{"candidates":[{"content":{"parts":[{"text":"no"}]}},{"content":{"parts":[{"inlineData":{"data":"QUJD"}}]}}]}`))

	require.NoError(t, err)
	assert.Equal(t, gemini.OutcomeEmpty, outcome.Kind)
}

func TestDecode_NotJSON(t *testing.T) {
	_, err := gemini.Decode([]byte(`<html>bad gateway</html>`))

	assert.ErrorIs(t, err, gemini.ErrMalformedResponse)
}
