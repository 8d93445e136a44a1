package registry

import "github.com/oryx-ai/modelhub/pkg/api"

// DefaultModelID is the model selected by a freshly constructed registry.
const DefaultModelID = "gemini-2.5-pro"

// defaultState returns the built-in catalog: all three providers, no
// credentials, gemini-2.5-pro selected.
func defaultState() api.RegistryState {
	return api.RegistryState{
		CurrentProvider: api.ProviderGemini,
		CurrentModel:    DefaultModelID,
		Providers: map[api.Provider]api.ProviderConfig{
			api.ProviderGemini: {
				Name:     "Google Gemini",
				Provider: api.ProviderGemini,
				Models: []api.ModelInfo{
					{
						ID:                "gemini-2.5-pro",
						Name:              "Gemini 2.5 Pro",
						Provider:          api.ProviderGemini,
						Description:       "Google's most capable reasoning model.",
						ContextWindow:     1048576,
						SupportsStreaming: true,
					},
					{
						ID:                "gemini-2.5-flash",
						Name:              "Gemini 2.5 Flash",
						Provider:          api.ProviderGemini,
						Description:       "Fast and cost-efficient workhorse model.",
						ContextWindow:     1048576,
						SupportsStreaming: true,
					},
					{
						ID:                "gemini-2.0-flash",
						Name:              "Gemini 2.0 Flash",
						Provider:          api.ProviderGemini,
						Description:       "Previous generation flash model.",
						ContextWindow:     1048576,
						SupportsStreaming: true,
					},
				},
			},
			api.ProviderOpenAI: {
				Name:     "OpenAI",
				Provider: api.ProviderOpenAI,
				Models: []api.ModelInfo{
					{
						ID:                "gpt-4o",
						Name:              "GPT-4o",
						Provider:          api.ProviderOpenAI,
						Description:       "OpenAI's flagship multimodal model.",
						ContextWindow:     128000,
						SupportsStreaming: true,
					},
					{
						ID:                "gpt-4o-mini",
						Name:              "GPT-4o mini",
						Provider:          api.ProviderOpenAI,
						Description:       "Small, fast and inexpensive.",
						ContextWindow:     128000,
						SupportsStreaming: true,
					},
					{
						ID:                "gpt-4-turbo",
						Name:              "GPT-4 Turbo",
						Provider:          api.ProviderOpenAI,
						Description:       "GPT-4 with a large context window.",
						ContextWindow:     128000,
						SupportsStreaming: true,
					},
				},
			},
			api.ProviderAnthropic: {
				Name:     "Anthropic",
				Provider: api.ProviderAnthropic,
				Models: []api.ModelInfo{
					{
						ID:                "claude-3-5-sonnet-20241022",
						Name:              "Claude 3.5 Sonnet",
						Provider:          api.ProviderAnthropic,
						Description:       "Anthropic's balanced flagship model.",
						ContextWindow:     200000,
						SupportsStreaming: true,
					},
					{
						ID:                "claude-3-5-haiku-20241022",
						Name:              "Claude 3.5 Haiku",
						Provider:          api.ProviderAnthropic,
						Description:       "Fastest Claude model.",
						ContextWindow:     200000,
						SupportsStreaming: true,
					},
					{
						ID:                "claude-3-opus-20240229",
						Name:              "Claude 3 Opus",
						Provider:          api.ProviderAnthropic,
						Description:       "Strongest Claude 3 generation model.",
						ContextWindow:     200000,
						SupportsStreaming: true,
					},
				},
			},
		},
	}
}
