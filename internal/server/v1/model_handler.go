package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oryx-ai/modelhub/internal/cache"
	"github.com/oryx-ai/modelhub/internal/registry"
	"github.com/oryx-ai/modelhub/pkg/api"
)

const (
	modelsCacheKey = "registry:models"
	modelsCacheTTL = 5 * time.Second
)

// ModelHandler exposes the registry over HTTP: catalog listing, current
// selection, and per-provider credentials.
type ModelHandler struct {
	svc   *registry.Service
	cache cache.CacheService
}

func NewModelHandler(svc *registry.Service, c cache.CacheService) *ModelHandler {
	return &ModelHandler{svc: svc, cache: c}
}

type modelList struct {
	Object string          `json:"object"`
	Data   []api.ModelInfo `json:"data"`
}

// ListModels returns every model, optionally filtered by provider or id
// substring.
//
// GET /v1/models?provider=openai&id=gpt
func (h *ModelHandler) ListModels(c *gin.Context) {
	var list modelList
	if err := h.cache.Get(c.Request.Context(), modelsCacheKey, &list); err != nil {
		reg, err := h.svc.Load(c.Request.Context())
		if err != nil {
			_ = c.Error(api.InternalError("Failed to load model registry", err))
			return
		}
		list = modelList{Object: "list", Data: reg.AllModels()}
		_ = h.cache.Set(c.Request.Context(), modelsCacheKey, list, modelsCacheTTL)
	}

	providerFilter := c.Query("provider")
	idFilter := c.Query("id")
	if providerFilter == "" && idFilter == "" {
		c.JSON(http.StatusOK, list)
		return
	}

	filtered := modelList{Object: "list", Data: []api.ModelInfo{}}
	for _, m := range list.Data {
		if providerFilter != "" && string(m.Provider) != providerFilter {
			continue
		}
		if idFilter != "" && !strings.Contains(m.ID, idFilter) {
			continue
		}
		filtered.Data = append(filtered.Data, m)
	}
	c.JSON(http.StatusOK, filtered)
}

type currentSelection struct {
	Provider api.Provider   `json:"provider"`
	Model    string         `json:"model"`
	Info     *api.ModelInfo `json:"info,omitempty"`
}

// CurrentModel reports the active (provider, model) pair.
//
// GET /v1/models/current
func (h *ModelHandler) CurrentModel(c *gin.Context) {
	reg, err := h.svc.Load(c.Request.Context())
	if err != nil {
		_ = c.Error(api.InternalError("Failed to load model registry", err))
		return
	}

	out := currentSelection{
		Provider: reg.CurrentProvider(),
		Model:    reg.CurrentModel(),
	}
	if info, ok := reg.CurrentModelInfo(); ok {
		out.Info = &info
	}
	c.JSON(http.StatusOK, out)
}

type setModelRequest struct {
	Provider api.Provider `json:"provider" binding:"required"`
	Model    string       `json:"model" binding:"required"`
}

// SetCurrentModel switches the active selection and persists it.
//
// PUT /v1/models/current
func (h *ModelHandler) SetCurrentModel(c *gin.Context) {
	var req setModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(api.ParseValidationError(err)))
		return
	}

	reg, err := h.svc.Load(c.Request.Context())
	if err != nil {
		_ = c.Error(api.InternalError("Failed to load model registry", err))
		return
	}

	if !reg.SetCurrentModel(req.Provider, req.Model) {
		_ = c.Error(api.BadRequestError("unknown provider or model: " + string(req.Provider) + "/" + req.Model))
		return
	}

	if err := h.svc.Save(c.Request.Context(), reg); err != nil {
		_ = c.Error(api.InternalError("Failed to persist model selection", err))
		return
	}
	_ = h.cache.Delete(c.Request.Context(), modelsCacheKey)

	c.JSON(http.StatusOK, currentSelection{Provider: req.Provider, Model: req.Model})
}

type setKeyRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
}

// SetProviderKey stores a provider credential verbatim.
//
// PUT /v1/providers/:provider/key
func (h *ModelHandler) SetProviderKey(c *gin.Context) {
	provider := api.Provider(c.Param("provider"))

	var req setKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(api.ParseValidationError(err)))
		return
	}

	reg, err := h.svc.Load(c.Request.Context())
	if err != nil {
		_ = c.Error(api.InternalError("Failed to load model registry", err))
		return
	}

	if !reg.SetProviderAPIKey(provider, req.APIKey) {
		_ = c.Error(api.BadRequestError("unknown provider: " + string(provider)))
		return
	}

	if err := h.svc.Save(c.Request.Context(), reg); err != nil {
		_ = c.Error(api.InternalError("Failed to persist API key", err))
		return
	}
	_ = h.cache.Delete(c.Request.Context(), modelsCacheKey)

	c.JSON(http.StatusOK, gin.H{
		"provider":   provider,
		"configured": reg.HasValidAPIKey(provider),
	})
}
