// Package registry holds the provider/model catalog, the current selection
// and per-provider credentials. Pure data and validation, no I/O.
package registry

import (
	"strings"

	"github.com/oryx-ai/modelhub/pkg/api"
)

// Registry is a disposable in-memory view over the persisted snapshot: each
// command invocation constructs its own instance, mutates it, and either
// discards it or writes it back whole. It is not safe for concurrent use and
// does not need to be.
//
// Mutators report failure via their bool result and never leave the state
// referencing an unknown provider or model.
type Registry struct {
	state api.RegistryState
}

// New returns a registry populated with the built-in defaults.
func New() *Registry {
	return &Registry{state: defaultState()}
}

// FromSnapshot builds default state and overlays every field present in
// snap, so a partial snapshot (say, only currentModel or a single provider's
// apiKey) still yields a fully populated registry.
//
// The overlay merges provider entries field-wise: a snapshot provider with
// an empty model list keeps the default catalog rather than dropping it.
// Provider keys outside the closed set are ignored.
func FromSnapshot(snap *api.RegistryState) *Registry {
	state := defaultState()
	if snap == nil {
		return &Registry{state: state}
	}

	for _, id := range api.AllProviders() {
		stored, ok := snap.Providers[id]
		if !ok {
			continue
		}
		merged := state.Providers[id]
		if stored.Name != "" {
			merged.Name = stored.Name
		}
		if stored.APIKey != "" {
			merged.APIKey = stored.APIKey
		}
		if stored.BaseURL != "" {
			merged.BaseURL = stored.BaseURL
		}
		if len(stored.Models) > 0 {
			merged.Models = cloneModels(stored.Models)
			for i := range merged.Models {
				// Re-normalize the denormalized back-reference.
				merged.Models[i].Provider = id
			}
		}
		state.Providers[id] = merged
	}

	if snap.CurrentProvider.Valid() {
		state.CurrentProvider = snap.CurrentProvider
	}
	if snap.CurrentModel != "" {
		state.CurrentModel = snap.CurrentModel
	}

	return &Registry{state: state}
}

// Providers returns every provider configuration in fixed display order.
func (r *Registry) Providers() []api.ProviderConfig {
	out := make([]api.ProviderConfig, 0, len(api.AllProviders()))
	for _, id := range api.AllProviders() {
		out = append(out, cloneProvider(r.state.Providers[id]))
	}
	return out
}

// Provider returns the configuration for id, or false for anything outside
// the closed set.
func (r *Registry) Provider(id api.Provider) (api.ProviderConfig, bool) {
	cfg, ok := r.state.Providers[id]
	if !ok {
		return api.ProviderConfig{}, false
	}
	return cloneProvider(cfg), true
}

// ModelsForProvider returns the provider's models in catalog order. Unknown
// providers degrade to an empty list; listing is a read path that must not
// fail on user-typo input.
func (r *Registry) ModelsForProvider(id api.Provider) []api.ModelInfo {
	cfg, ok := r.state.Providers[id]
	if !ok {
		return nil
	}
	return cloneModels(cfg.Models)
}

// AllModels returns every provider's models in provider-then-model order.
func (r *Registry) AllModels() []api.ModelInfo {
	var out []api.ModelInfo
	for _, id := range api.AllProviders() {
		out = append(out, cloneModels(r.state.Providers[id].Models)...)
	}
	return out
}

func (r *Registry) CurrentProvider() api.Provider {
	return r.state.CurrentProvider
}

func (r *Registry) CurrentModel() string {
	return r.state.CurrentModel
}

// CurrentModelInfo resolves the current selection against the catalog. It
// reports false only when an externally edited snapshot left the selection
// pointing at a model the current provider no longer lists; callers treat
// that as "no confirmed current model".
func (r *Registry) CurrentModelInfo() (api.ModelInfo, bool) {
	cfg, ok := r.state.Providers[r.state.CurrentProvider]
	if !ok {
		return api.ModelInfo{}, false
	}
	for _, m := range cfg.Models {
		if m.ID == r.state.CurrentModel {
			return m, true
		}
	}
	return api.ModelInfo{}, false
}

// FindModel locates a model id anywhere in the catalog, searching in
// provider-then-model order.
func (r *Registry) FindModel(modelID string) (api.ModelInfo, bool) {
	for _, id := range api.AllProviders() {
		for _, m := range r.state.Providers[id].Models {
			if m.ID == modelID {
				return m, true
			}
		}
	}
	return api.ModelInfo{}, false
}

// SetCurrentModel atomically switches the selection to (provider, modelID).
// It succeeds only when the provider is known AND the model exists in that
// provider's catalog; on any failure nothing changes. Both fields always
// move together, so the state can never pair a provider with a foreign
// model.
func (r *Registry) SetCurrentModel(provider api.Provider, modelID string) bool {
	cfg, ok := r.state.Providers[provider]
	if !ok {
		return false
	}
	for _, m := range cfg.Models {
		if m.ID == modelID {
			r.state.CurrentProvider = provider
			r.state.CurrentModel = modelID
			return true
		}
	}
	return false
}

// SetProviderAPIKey stores key verbatim for a known provider. No trimming,
// no format checks; validity against the live API is out of scope.
func (r *Registry) SetProviderAPIKey(provider api.Provider, key string) bool {
	cfg, ok := r.state.Providers[provider]
	if !ok {
		return false
	}
	cfg.APIKey = key
	r.state.Providers[provider] = cfg
	return true
}

// ProviderAPIKey returns the stored key, or false when none is configured.
func (r *Registry) ProviderAPIKey(provider api.Provider) (string, bool) {
	cfg, ok := r.state.Providers[provider]
	if !ok || cfg.APIKey == "" {
		return "", false
	}
	return cfg.APIKey, true
}

// HasValidAPIKey reports whether the provider has a key with any
// non-whitespace content. An all-whitespace key counts as "not configured":
// a literal blank string is a common accidental persisted value.
func (r *Registry) HasValidAPIKey(provider api.Provider) bool {
	key, ok := r.ProviderAPIKey(provider)
	return ok && strings.TrimSpace(key) != ""
}

// Snapshot returns a deep, independent copy of the registry state. Mutating
// the returned value never affects the registry.
func (r *Registry) Snapshot() *api.RegistryState {
	out := api.RegistryState{
		CurrentProvider: r.state.CurrentProvider,
		CurrentModel:    r.state.CurrentModel,
		Providers:       make(map[api.Provider]api.ProviderConfig, len(r.state.Providers)),
	}
	for id, cfg := range r.state.Providers {
		out.Providers[id] = cloneProvider(cfg)
	}
	return &out
}

func cloneProvider(cfg api.ProviderConfig) api.ProviderConfig {
	out := cfg
	out.Models = cloneModels(cfg.Models)
	return out
}

func cloneModels(models []api.ModelInfo) []api.ModelInfo {
	if models == nil {
		return nil
	}
	out := make([]api.ModelInfo, len(models))
	copy(out, models)
	return out
}
