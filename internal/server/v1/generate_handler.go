package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oryx-ai/modelhub/internal/config"
	"github.com/oryx-ai/modelhub/internal/generator"
	"github.com/oryx-ai/modelhub/internal/registry"
	"github.com/oryx-ai/modelhub/pkg/api"
)

// GeneratorFactory builds a backend for a selection. Injected so handler
// tests can substitute a fake.
type GeneratorFactory func(api.Selection) (generator.ContentGenerator, error)

// GenerateHandler resolves the registry's current selection into a
// provider backend and forwards generation traffic to it.
type GenerateHandler struct {
	svc     *registry.Service
	gemini  config.GeminiConfig
	factory GeneratorFactory
}

func NewGenerateHandler(svc *registry.Service, gemini config.GeminiConfig, factory GeneratorFactory) *GenerateHandler {
	if factory == nil {
		factory = generator.New
	}
	return &GenerateHandler{svc: svc, gemini: gemini, factory: factory}
}

// resolve maps the request model (or the current selection when empty) to a
// fully populated Selection.
func (h *GenerateHandler) resolve(c *gin.Context, model string) (api.Selection, bool) {
	reg, err := h.svc.Load(c.Request.Context())
	if err != nil {
		_ = c.Error(api.InternalError("Failed to load model registry", err))
		return api.Selection{}, false
	}

	sel := api.Selection{
		Provider: reg.CurrentProvider(),
		Model:    reg.CurrentModel(),
	}
	if model != "" {
		info, ok := reg.FindModel(model)
		if !ok {
			_ = c.Error(api.BadRequestError("unknown model: " + model))
			return api.Selection{}, false
		}
		sel.Provider = info.Provider
		sel.Model = info.ID
	}

	if cfg, ok := reg.Provider(sel.Provider); ok {
		sel.APIKey = cfg.APIKey
		sel.BaseURL = cfg.BaseURL
	}
	if sel.Provider == api.ProviderGemini {
		if sel.APIKey == "" {
			sel.APIKey = h.gemini.APIKey
		}
		if sel.BaseURL == "" {
			sel.BaseURL = h.gemini.BaseURL
		}
		sel.Proxy = h.gemini.Proxy
	}
	return sel, true
}

func (h *GenerateHandler) backend(c *gin.Context, model string) (generator.ContentGenerator, api.Selection, bool) {
	sel, ok := h.resolve(c, model)
	if !ok {
		return nil, api.Selection{}, false
	}

	gen, err := h.factory(sel)
	if err != nil {
		if errors.Is(err, generator.ErrUnsupportedProvider) {
			_ = c.Error(api.BadRequestError(err.Error()))
		} else {
			_ = c.Error(api.InternalError("Failed to construct provider backend", err))
		}
		return nil, api.Selection{}, false
	}
	return gen, sel, true
}

// reportBackendError maps capability failures onto problem documents; a
// stubbed provider surfaces as 501 with the switch-provider hint intact.
func reportBackendError(c *gin.Context, err error) {
	if errors.Is(err, generator.ErrNotImplemented) {
		_ = c.Error(api.NewProblem(http.StatusNotImplemented, "Not Implemented", err.Error()))
		return
	}
	_ = c.Error(api.UpstreamProviderError("Provider request failed", err))
}

// Generate handles single and streaming content generation.
//
// POST /v1/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(api.ParseValidationError(err)))
		return
	}

	gen, sel, ok := h.backend(c, req.Model)
	if !ok {
		return
	}
	req.Model = sel.Model

	if req.Stream {
		h.handleStream(c, gen, &req)
		return
	}

	resp, err := gen.GenerateContent(c.Request.Context(), &req)
	if err != nil {
		reportBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GenerateHandler) handleStream(c *gin.Context, gen generator.ContentGenerator, req *api.GenerateRequest) {
	streamChan, err := gen.GenerateContentStream(c.Request.Context(), req)
	if err != nil {
		reportBackendError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		result, open := <-streamChan
		if !open {
			_, _ = io.WriteString(w, "data: [DONE]\n\n")
			return false
		}

		if result.Err != nil {
			tail, _ := json.Marshal(api.ErrorResponse{Message: result.Err.Error()})
			_, _ = fmt.Fprintf(w, "data: %s\n\n", tail)
			return false
		}

		if result.Response != nil {
			data, err := json.Marshal(result.Response)
			if err == nil {
				_, err = fmt.Fprintf(w, "data: %s\n\n", data)
				return err == nil
			}
		}
		return true
	})
}

// CountTokens reports the token cost of a prospective request.
//
// POST /v1/tokens/count
func (h *GenerateHandler) CountTokens(c *gin.Context) {
	var req api.CountTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(api.ParseValidationError(err)))
		return
	}

	gen, sel, ok := h.backend(c, req.Model)
	if !ok {
		return
	}
	req.Model = sel.Model

	resp, err := gen.CountTokens(c.Request.Context(), &req)
	if err != nil {
		reportBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Embed returns embedding vectors for input content.
//
// POST /v1/embeddings
func (h *GenerateHandler) Embed(c *gin.Context) {
	var req api.EmbedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(api.ParseValidationError(err)))
		return
	}

	gen, sel, ok := h.backend(c, req.Model)
	if !ok {
		return
	}
	req.Model = sel.Model

	resp, err := gen.EmbedContent(c.Request.Context(), &req)
	if err != nil {
		reportBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
