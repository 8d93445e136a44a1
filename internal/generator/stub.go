package generator

import (
	"context"
	"fmt"

	"github.com/oryx-ai/modelhub/pkg/api"
)

// stubGenerator satisfies ContentGenerator for providers whose backend
// integration does not exist yet. It constructs fine; every capability
// method fails uniformly, naming the provider and pointing at the reference
// backend. The provider name is only used for messaging.
type stubGenerator struct {
	provider api.Provider
}

func newStub(provider api.Provider) *stubGenerator {
	return &stubGenerator{provider: provider}
}

func (s *stubGenerator) unimplemented() error {
	return fmt.Errorf("%w for provider %q: switch to %q to generate content",
		ErrNotImplemented, string(s.provider), string(api.ProviderGemini))
}

func (s *stubGenerator) GenerateContent(ctx context.Context, req *api.GenerateRequest) (*api.GenerateResponse, error) {
	return nil, s.unimplemented()
}

func (s *stubGenerator) GenerateContentStream(ctx context.Context, req *api.GenerateRequest) (<-chan api.StreamResult, error) {
	return nil, s.unimplemented()
}

func (s *stubGenerator) CountTokens(ctx context.Context, req *api.CountTokensRequest) (*api.CountTokensResponse, error) {
	return nil, s.unimplemented()
}

func (s *stubGenerator) EmbedContent(ctx context.Context, req *api.EmbedRequest) (*api.EmbedResponse, error) {
	return nil, s.unimplemented()
}
