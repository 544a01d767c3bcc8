package handlers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fm-configurator/internal/artifacts"
	"fm-configurator/internal/config"
	"fm-configurator/internal/gemini"
	"fm-configurator/internal/handlers"
	"fm-configurator/internal/models"
	"fm-configurator/internal/openai"
	"fm-configurator/internal/router"
	"fm-configurator/internal/services"
	"fm-configurator/internal/supabase"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// jpegHeader is enough for content sniffing to report image/jpeg.
var jpegHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}

type testEnv struct {
	router        *gin.Engine
	providerCalls *int32
	lastProvider  *map[string]any
}

func newTestEnv(t *testing.T, apiKey string, providerResponse string, providerStatus int) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var calls int32
	last := map[string]any{}
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewDecoder(r.Body).Decode(&last)
		w.WriteHeader(providerStatus)
		_, _ = io.WriteString(w, providerResponse)
	}))
	t.Cleanup(provider.Close)

	store, err := artifacts.NewFileStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	geminiClient := gemini.NewClient(gemini.Options{APIKey: apiKey, BaseURL: provider.URL, HTTPClient: provider.Client()})
	openaiClient := openai.NewClient(provider.URL, apiKey, "", provider.Client())

	r := router.New(router.Deps{
		Transform: handlers.NewTransformHandler(services.NewTransformService(geminiClient, store, "", nil), 1<<20),
		Generate:  handlers.NewGenerateHandler(services.NewGenerateService(geminiClient, openaiClient, "", nil)),
		Artifacts: handlers.NewArtifactsHandler(store),
	})
	return testEnv{router: r, providerCalls: &calls, lastProvider: &last}
}

func imageResponse(data []byte, mime string) string {
	return `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"` + mime + `","data":"` +
		base64.StdEncoding.EncodeToString(data) + `"}}]}}]}`
}

func multipartBody(t *testing.T, file []byte, fileType string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="me.jpg"`)
		if fileType != "" {
			h.Set("Content-Type", fileType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func postTransform(t *testing.T, env testEnv, file []byte, fileType string, fields map[string]string) *httptest.ResponseRecorder {
	body, contentType := multipartBody(t, file, fileType, fields)
	req, _ := http.NewRequest("POST", "/api/transform-gemini", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestTransform_AnimeJPEGScenario(t *testing.T) {
	out := []byte("\x89PNG generated")
	env := newTestEnv(t, "key", imageResponse(out, "image/png"), http.StatusOK)

	w := postTransform(t, env, jpegHeader, "image/jpeg", map[string]string{"style": "anime", "customPrompt": ""})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.TransformResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Mime, "image/"))
	assert.Regexp(t, uuidPattern, resp.ID)
	assert.Regexp(t, regexp.MustCompile(regexp.QuoteMeta(resp.ID)+`\.(png|jpg)$`), resp.URL)
	assert.Equal(t, "anime", resp.Style)
	assert.Equal(t, base64.StdEncoding.EncodeToString(out), resp.B64)

	prompt := (*env.lastProvider)["contents"].([]any)[0].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"].(string)
	assert.NotContains(t, prompt, "Additional instructions")
}

func TestTransform_ArtifactRoundTrip(t *testing.T) {
	out := []byte{0xff, 0xd8, 0xff, 0xdb, 1, 2, 3, 4, 5}
	env := newTestEnv(t, "key", imageResponse(out, "image/jpeg"), http.StatusOK)

	w := postTransform(t, env, jpegHeader, "image/jpeg", map[string]string{"style": "gta"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.TransformResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasSuffix(resp.URL, resp.ID+".jpg"))

	u, err := url.Parse(resp.URL)
	require.NoError(t, err)
	req, _ := http.NewRequest("GET", u.Path, nil)
	get := httptest.NewRecorder()
	env.router.ServeHTTP(get, req)

	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, out, get.Body.Bytes())
	assert.Equal(t, "public, max-age=31536000, immutable", get.Header().Get("Cache-Control"))
}

func TestTransform_MissingFileNeverCallsProvider(t *testing.T) {
	env := newTestEnv(t, "key", imageResponse([]byte("x"), "image/png"), http.StatusOK)

	w := postTransform(t, env, nil, "", map[string]string{"style": "anime"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing file"}`, w.Body.String())
	assert.Equal(t, int32(0), atomic.LoadInt32(env.providerCalls))
}

func TestTransform_NotMultipart(t *testing.T) {
	env := newTestEnv(t, "key", "{}", http.StatusOK)

	req, _ := http.NewRequest("POST", "/api/transform-gemini", strings.NewReader(`{"style":"anime"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(env.providerCalls))
}

func TestTransform_ZeroCandidates(t *testing.T) {
	env := newTestEnv(t, "key", `{"candidates":[]}`, http.StatusOK)

	w := postTransform(t, env, jpegHeader, "image/jpeg", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"No image returned"}`, w.Body.String())
}

func TestTransform_MissingAPIKey(t *testing.T) {
	env := newTestEnv(t, "", imageResponse([]byte("x"), "image/png"), http.StatusOK)

	w := postTransform(t, env, jpegHeader, "image/jpeg", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Missing GEMINI_API_KEY"}`, w.Body.String())
	assert.Equal(t, int32(0), atomic.LoadInt32(env.providerCalls))
}

func TestTransform_ProviderFailure(t *testing.T) {
	env := newTestEnv(t, "key", `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)

	w := postTransform(t, env, jpegHeader, "image/jpeg", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "quota exceeded")
}

func TestTransform_SniffsMissingContentType(t *testing.T) {
	env := newTestEnv(t, "key", imageResponse([]byte("x"), "image/png"), http.StatusOK)

	w := postTransform(t, env, jpegHeader, "application/octet-stream", nil)
	require.Equal(t, http.StatusOK, w.Code)

	parts := (*env.lastProvider)["contents"].([]any)[0].(map[string]any)["parts"].([]any)
	assert.Equal(t, "image/jpeg", parts[1].(map[string]any)["inlineData"].(map[string]any)["mimeType"])
}

func TestGenerateGemini(t *testing.T) {
	env := newTestEnv(t, "key", imageResponse([]byte("x"), "image/png"), http.StatusOK)

	req, _ := http.NewRequest("POST", "/api/generate-gemini", strings.NewReader(`{"prompt":"a cat","style":"simpsons"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.GenerateGeminiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "image/png", resp.Mime)
	assert.NotEmpty(t, resp.B64)
}

func TestGenerateGemini_PromptMustBeString(t *testing.T) {
	env := newTestEnv(t, "key", "{}", http.StatusOK)

	for _, body := range []string{`{}`, `{"prompt":42}`, `{"prompt":""}`, `not json`} {
		req, _ := http.NewRequest("POST", "/api/generate-gemini", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Missing prompt"}`, w.Body.String(), body)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(env.providerCalls))
}

func TestGenerate_OpenAI(t *testing.T) {
	env := newTestEnv(t, "key", `{"data":[{"b64_json":"QUJD"}]}`, http.StatusOK)

	req, _ := http.NewRequest("POST", "/api/generate", strings.NewReader(`{"prompt":"a lighthouse"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"b64":"QUJD","url":null}`, w.Body.String())
}

func TestArtifacts_NotFound(t *testing.T) {
	env := newTestEnv(t, "key", "{}", http.StatusOK)

	for _, path := range []string{"/uploads/0b6f1a52-3c43-4d8e-9f5a-1f2d3c4b5a69.png", "/uploads/secret.txt"} {
		req, _ := http.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handlers.HealthHandler)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestTransform_BucketArtifactRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	out := []byte("\x89PNG bucket")

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, imageResponse(out, "image/png"))
	}))
	defer provider.Close()

	var (
		mu      sync.Mutex
		objects = map[string][]byte{}
	)
	bucketServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodPost {
			objects[r.URL.Path], _ = io.ReadAll(r.Body)
			_, _ = io.WriteString(w, `{"Key":"ok"}`)
			return
		}
		data, found := objects[r.URL.Path]
		if !found {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"statusCode":"404","error":"not_found","message":"Object not found"}`)
			return
		}
		_, _ = w.Write(data)
	}))
	defer bucketServer.Close()

	client, err := supabase.NewClient(&config.Config{SupabaseURL: bucketServer.URL, SupabaseServiceKey: "k"})
	require.NoError(t, err)
	bucket := supabase.NewStorageClient(client, "designs", "uploads").WithPublicBaseURL("/uploads")

	geminiClient := gemini.NewClient(gemini.Options{APIKey: "key", BaseURL: provider.URL, HTTPClient: provider.Client()})
	r := router.New(router.Deps{
		Transform: handlers.NewTransformHandler(services.NewTransformService(geminiClient, bucket, "", nil), 1<<20),
		Generate:  handlers.NewGenerateHandler(services.NewGenerateService(geminiClient, nil, "", nil)),
		Artifacts: handlers.NewBucketArtifactsHandler(bucket),
	})

	w := postTransform(t, testEnv{router: r}, jpegHeader, "image/jpeg", map[string]string{"style": "anime"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.TransformResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/uploads/"+resp.ID+".png", resp.URL)

	req, _ := http.NewRequest("GET", resp.URL, nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)

	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, out, get.Body.Bytes())
	assert.Equal(t, "image/png", get.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", get.Header().Get("Cache-Control"))

	for _, path := range []string{"/uploads/0b6f1a52-3c43-4d8e-9f5a-1f2d3c4b5a69.png", "/uploads/secret.txt"} {
		req, _ := http.NewRequest("GET", path, nil)
		miss := httptest.NewRecorder()
		r.ServeHTTP(miss, req)
		assert.Equal(t, http.StatusNotFound, miss.Code, path)
	}
}

func TestGenerateGemini_NonStringOptionalFields(t *testing.T) {
	tests := []struct {
		body      string
		wantStyle string
	}{
		{`{"prompt":"a cat","style":5}`, "Style: 5\n"},
		{`{"prompt":"a cat","style":true,"customPrompt":7}`, "Style: true\n"},
		{`{"prompt":"a cat","style":false,"customPrompt":null}`, ""},
	}

	for _, tt := range tests {
		env := newTestEnv(t, "key", imageResponse([]byte("x"), "image/png"), http.StatusOK)

		req, _ := http.NewRequest("POST", "/api/generate-gemini", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, tt.body)
		prompt := (*env.lastProvider)["contents"].([]any)[0].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"].(string)
		if tt.wantStyle == "" {
			assert.NotContains(t, prompt, "Style:", tt.body)
		} else {
			assert.Contains(t, prompt, tt.wantStyle, tt.body)
		}
	}
}
