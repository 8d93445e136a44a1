package api

// Provider identifies one of the supported upstream AI vendors.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// AllProviders returns the closed provider set in display order.
func AllProviders() []Provider {
	return []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic}
}

// Valid reports whether p is a member of the closed provider set.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return true
	}
	return false
}

// ModelInfo describes one selectable model. The id is the selection key and
// is unique within its owning provider's model list.
type ModelInfo struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Provider          Provider `json:"provider"`
	Description       string   `json:"description,omitempty"`
	ContextWindow     int      `json:"contextWindow,omitempty"`
	SupportsStreaming bool     `json:"supportsStreaming,omitempty"`
}

// ProviderConfig describes one provider: display name, its ordered model
// catalog, and the mutable per-provider credential.
type ProviderConfig struct {
	Name     string      `json:"name"`
	Provider Provider    `json:"provider"`
	Models   []ModelInfo `json:"models"`
	APIKey   string      `json:"apiKey,omitempty"`
	BaseURL  string      `json:"baseUrl,omitempty"`
}

// RegistryState is the full serializable registry snapshot. The persisted
// field names are part of the wire contract.
type RegistryState struct {
	CurrentProvider Provider                    `json:"currentProvider"`
	CurrentModel    string                      `json:"currentModel"`
	Providers       map[Provider]ProviderConfig `json:"providers"`
}

// Selection is the resolved (provider, model) pair handed to the generator
// dispatcher at generation time. It is distinct from RegistryState: no
// catalog, just what this one request needs.
type Selection struct {
	Provider Provider `json:"provider"`
	Model    string   `json:"model"`
	APIKey   string   `json:"apiKey,omitempty"`
	BaseURL  string   `json:"baseUrl,omitempty"`
	Proxy    string   `json:"proxy,omitempty"`
}
