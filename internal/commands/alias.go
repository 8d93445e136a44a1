package commands

import "github.com/oryx-ai/modelhub/pkg/api"

// providerAliases maps user-typed provider tokens to canonical identifiers.
// Aliasing lives at the command boundary; the registry only ever sees
// canonical providers.
var providerAliases = map[string]api.Provider{
	"gemini":    api.ProviderGemini,
	"google":    api.ProviderGemini,
	"openai":    api.ProviderOpenAI,
	"gpt":       api.ProviderOpenAI,
	"anthropic": api.ProviderAnthropic,
	"claude":    api.ProviderAnthropic,
}

// aliasOrder keeps completion output deterministic.
var aliasOrder = []string{"gemini", "google", "openai", "gpt", "anthropic", "claude"}

// resolveProvider maps an alias to its canonical provider. Unknown tokens
// are rejected here, before anything reaches the registry.
func resolveProvider(token string) (api.Provider, bool) {
	p, ok := providerAliases[token]
	return p, ok
}
