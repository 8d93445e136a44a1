package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	memorycache "github.com/oryx-ai/modelhub/internal/cache/memory"
	"github.com/oryx-ai/modelhub/internal/config"
	"github.com/oryx-ai/modelhub/internal/generator"
	"github.com/oryx-ai/modelhub/internal/registry"
	"github.com/oryx-ai/modelhub/internal/settings"
	"github.com/oryx-ai/modelhub/pkg/api"
)

func init() {
	api.InitValidator()
}

// fakeGenerator is a canned backend for handler tests.
type fakeGenerator struct {
	lastSelection api.Selection
	response      *api.GenerateResponse
	streamChunks  []string
	err           error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, req *api.GenerateRequest) (*api.GenerateResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) GenerateContentStream(ctx context.Context, req *api.GenerateRequest) (<-chan api.StreamResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan api.StreamResult)
	go func() {
		defer close(ch)
		for _, text := range f.streamChunks {
			ch <- api.StreamResult{Response: &api.GenerateResponse{
				Model: req.Model,
				Candidates: []api.Candidate{{
					Content: api.Content{Role: api.RoleModel, Parts: []api.Part{{Text: text}}},
				}},
			}}
		}
	}()
	return ch, nil
}

func (f *fakeGenerator) CountTokens(ctx context.Context, req *api.CountTokensRequest) (*api.CountTokensResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.CountTokensResponse{TotalTokens: 7}, nil
}

func (f *fakeGenerator) EmbedContent(ctx context.Context, req *api.EmbedRequest) (*api.EmbedResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.EmbedResponse{Embeddings: []api.Embedding{{Values: []float64{0.5}}}}, nil
}

type testEnv struct {
	server *Server
	svc    *registry.Service
	fake   *fakeGenerator
}

func newTestEnv(t *testing.T, apiKeys ...string) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Port = "0"
	cfg.Server.APIKeys = apiKeys
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000

	svc := registry.NewService(settings.NewMemoryStore(), zap.NewNop())
	fake := &fakeGenerator{}

	// Route gemini selections to the fake; stubs and unknown providers keep
	// their real dispatch behavior.
	factory := func(sel api.Selection) (generator.ContentGenerator, error) {
		fake.lastSelection = sel
		if sel.Provider == api.ProviderGemini {
			return fake, nil
		}
		return generator.New(sel)
	}

	srv := New(cfg, zap.NewNop(), svc, memorycache.NewMemoryCache(), factory)
	return &testEnv{server: srv, svc: svc, fake: fake}
}

// closeNotifyRecorder implements http.CloseNotifier so handlers that use
// gin's Context.Stream can run against httptest.ResponseRecorder.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func (e *testEnv) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(&closeNotifyRecorder{ResponseRecorder: w, closed: make(chan bool)}, req)
	return w
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestListModels(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Object string          `json:"object"`
		Data   []api.ModelInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "list", resp.Object)
	assert.Len(t, resp.Data, 9)
}

func TestListModelsFiltered(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/models?provider=openai", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []api.ModelInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	for _, m := range resp.Data {
		assert.Equal(t, api.ProviderOpenAI, m.Provider)
	}

	w = env.do(http.MethodGet, "/v1/models?id=claude-3-5", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestCurrentModel(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/models/current", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Provider api.Provider   `json:"provider"`
		Model    string         `json:"model"`
		Info     *api.ModelInfo `json:"info"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, api.ProviderGemini, resp.Provider)
	assert.Equal(t, "gemini-2.5-pro", resp.Model)
	require.NotNil(t, resp.Info)
	assert.Equal(t, "gemini-2.5-pro", resp.Info.ID)
}

func TestSetCurrentModel(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPut, "/v1/models/current", map[string]string{
		"provider": "openai",
		"model":    "gpt-4o",
	})
	require.Equal(t, http.StatusOK, w.Code)

	reg, err := env.svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.ProviderOpenAI, reg.CurrentProvider())
	assert.Equal(t, "gpt-4o", reg.CurrentModel())
}

func TestSetCurrentModelRejectsUnknown(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPut, "/v1/models/current", map[string]string{
		"provider": "openai",
		"model":    "not-a-real-model",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not-a-real-model")

	// Selection must be untouched.
	reg, err := env.svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.ProviderGemini, reg.CurrentProvider())
}

func TestSetCurrentModelValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPut, "/v1/models/current", map[string]string{"provider": "openai"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "model")
}

func TestSetProviderKey(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPut, "/v1/providers/anthropic/key", map[string]string{"apiKey": "sk-ant-123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"configured":true`)

	reg, err := env.svc.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, reg.HasValidAPIKey(api.ProviderAnthropic))
}

func TestSetProviderKeyUnknownProvider(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPut, "/v1/providers/mistral/key", map[string]string{"apiKey": "sk-123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t)
	env.fake.response = &api.GenerateResponse{
		ID:    "gen-1",
		Model: "gemini-2.5-pro",
		Candidates: []api.Candidate{{
			Content:      api.Content{Role: api.RoleModel, Parts: []api.Part{{Text: "Hello"}}},
			FinishReason: "STOP",
		}},
	}

	w := env.do(http.MethodPost, "/v1/generate", map[string]interface{}{
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": "Hi"}}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hello", resp.Candidates[0].Content.Parts[0].Text)

	// No model in the request: the current selection fills it in.
	assert.Equal(t, api.ProviderGemini, env.fake.lastSelection.Provider)
	assert.Equal(t, "gemini-2.5-pro", env.fake.lastSelection.Model)
}

func TestGenerateExplicitModelOverridesSelection(t *testing.T) {
	env := newTestEnv(t)
	env.fake.response = &api.GenerateResponse{Candidates: []api.Candidate{{}}}

	w := env.do(http.MethodPost, "/v1/generate", map[string]interface{}{
		"model": "gemini-2.5-flash",
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": "Hi"}}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gemini-2.5-flash", env.fake.lastSelection.Model)
}

func TestGenerateUnknownModel(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/v1/generate", map[string]interface{}{
		"model": "not-a-real-model",
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": "Hi"}}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateMissingContents(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/v1/generate", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "contents")
}

func TestGenerateStubProviderReturns501(t *testing.T) {
	env := newTestEnv(t)

	// Switch to a provider whose backend is not implemented.
	w := env.do(http.MethodPut, "/v1/models/current", map[string]string{
		"provider": "openai",
		"model":    "gpt-4o",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/v1/generate", map[string]interface{}{
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": "Hi"}}},
		},
	})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Contains(t, w.Body.String(), "openai")
	assert.Contains(t, w.Body.String(), "gemini")
}

func TestGenerateStream(t *testing.T) {
	env := newTestEnv(t)
	env.fake.streamChunks = []string{"Hel", "lo"}

	w := env.do(http.MethodPost, "/v1/generate", map[string]interface{}{
		"stream": true,
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": "Hi"}}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "Hel")
	assert.Contains(t, body, "lo")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(body), "data: [DONE]"))
}

func TestCountTokens(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/v1/tokens/count", map[string]interface{}{
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": "count me"}}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalTokens":7`)
}

func TestEmbed(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/v1/embeddings", map[string]interface{}{
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": "embed me"}}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.EmbedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Embeddings, 1)
}

func TestAuthDisabledByDefault(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/v1/models", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthEnforced(t *testing.T) {
	env := newTestEnv(t, "secret-key")

	w := env.do(http.MethodGet, "/v1/models", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/v1/models", nil, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/v1/models", nil, "Authorization", "Bearer secret-key")
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays open.
	w = env.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
