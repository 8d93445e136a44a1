// Package gemini is the reference content-generation backend, speaking the
// Google Generative Language API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oryx-ai/modelhub/internal/httpclient"
	"github.com/oryx-ai/modelhub/pkg/api"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Options configures a Client. APIKey is required; BaseURL and Proxy are
// overrides.
type Options struct {
	APIKey  string
	BaseURL string
	Proxy   string
}

type Client struct {
	opts   Options
	client *http.Client
}

func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}

	client := &http.Client{Timeout: 120 * time.Second}
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("gemini: invalid proxy url: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return &Client{opts: opts, client: client}, nil
}

// --- Gemini wire schemas ---

type geminiPart struct {
	Text string `json:"text,omitempty"`
}
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}
type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}
type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}
type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}
type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}
type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata *usageMetadata    `json:"usageMetadata,omitempty"`
}
type countTokensResponse struct {
	TotalTokens int `json:"totalTokens"`
}
type embedValues struct {
	Values []float64 `json:"values"`
}
type batchEmbedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}
type embedContentRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}
type batchEmbedResponse struct {
	Embeddings []embedValues `json:"embeddings"`
}

func shape(req []api.Content) geminiRequest {
	gr := geminiRequest{}
	for _, c := range req {
		gc := geminiContent{Role: string(c.Role)}
		for _, p := range c.Parts {
			gc.Parts = append(gc.Parts, geminiPart{Text: p.Text})
		}
		gr.Contents = append(gr.Contents, gc)
	}
	return gr
}

func (c *Client) endpoint(model, verb string, query map[string]string) string {
	u := fmt.Sprintf("%s/models/%s:%s?key=%s",
		strings.TrimRight(c.opts.BaseURL, "/"), model, verb, url.QueryEscape(c.opts.APIKey))
	for k, v := range query {
		u += "&" + k + "=" + url.QueryEscape(v)
	}
	return u
}

func fromCandidates(cands []geminiCandidate) []api.Candidate {
	out := make([]api.Candidate, 0, len(cands))
	for _, gc := range cands {
		cand := api.Candidate{
			Content:      api.Content{Role: api.Role(gc.Content.Role)},
			FinishReason: gc.FinishReason,
		}
		for _, p := range gc.Content.Parts {
			cand.Content.Parts = append(cand.Content.Parts, api.Part{Text: p.Text})
		}
		out = append(out, cand)
	}
	return out
}

func (c *Client) GenerateContent(ctx context.Context, req *api.GenerateRequest) (*api.GenerateResponse, error) {
	body := shape(req.Contents)
	if req.Temperature != nil || req.MaxOutputTokens > 0 {
		body.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxOutputTokens,
		}
	}

	var gResp geminiResponse
	u := c.endpoint(req.Model, "generateContent", nil)
	if err := httpclient.SendRequest(ctx, c.client, http.MethodPost, u, nil, body, &gResp); err != nil {
		return nil, err
	}

	if len(gResp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: no candidates in response")
	}

	resp := &api.GenerateResponse{
		ID:         "gen-" + uuid.NewString(),
		Model:      req.Model,
		Candidates: fromCandidates(gResp.Candidates),
	}
	if gResp.UsageMetadata != nil {
		resp.Usage = &api.Usage{
			PromptTokens:     gResp.UsageMetadata.PromptTokenCount,
			CompletionTokens: gResp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      gResp.UsageMetadata.TotalTokenCount,
		}
	}
	return resp, nil
}

func (c *Client) GenerateContentStream(ctx context.Context, req *api.GenerateRequest) (<-chan api.StreamResult, error) {
	ch := make(chan api.StreamResult)

	body := shape(req.Contents)
	if req.Temperature != nil || req.MaxOutputTokens > 0 {
		body.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxOutputTokens,
		}
	}
	u := c.endpoint(req.Model, "streamGenerateContent", map[string]string{"alt": "sse"})

	go func() {
		defer close(ch)

		err := httpclient.StreamRequest(ctx, c.client, http.MethodPost, u, nil, body, func(line string) error {
			if !strings.HasPrefix(line, "data: ") {
				return nil
			}
			data := strings.TrimPrefix(line, "data: ")

			var gResp geminiResponse
			if err := json.Unmarshal([]byte(data), &gResp); err != nil {
				return nil
			}

			if len(gResp.Candidates) > 0 {
				select {
				case ch <- api.StreamResult{Response: &api.GenerateResponse{
					Model:      req.Model,
					Candidates: fromCandidates(gResp.Candidates),
				}}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})

		if err != nil {
			select {
			case ch <- api.StreamResult{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return ch, nil
}

func (c *Client) CountTokens(ctx context.Context, req *api.CountTokensRequest) (*api.CountTokensResponse, error) {
	body := shape(req.Contents)

	var cResp countTokensResponse
	u := c.endpoint(req.Model, "countTokens", nil)
	if err := httpclient.SendRequest(ctx, c.client, http.MethodPost, u, nil, body, &cResp); err != nil {
		return nil, err
	}

	return &api.CountTokensResponse{TotalTokens: cResp.TotalTokens}, nil
}

func (c *Client) EmbedContent(ctx context.Context, req *api.EmbedRequest) (*api.EmbedResponse, error) {
	batch := batchEmbedRequest{}
	shaped := shape(req.Contents)
	for _, content := range shaped.Contents {
		content.Role = ""
		batch.Requests = append(batch.Requests, embedContentRequest{
			Model:   "models/" + req.Model,
			Content: content,
		})
	}

	var bResp batchEmbedResponse
	u := c.endpoint(req.Model, "batchEmbedContents", nil)
	if err := httpclient.SendRequest(ctx, c.client, http.MethodPost, u, nil, batch, &bResp); err != nil {
		return nil, err
	}

	resp := &api.EmbedResponse{}
	for _, e := range bResp.Embeddings {
		resp.Embeddings = append(resp.Embeddings, api.Embedding{Values: e.Values})
	}
	return resp, nil
}
