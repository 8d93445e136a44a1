package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oryx-ai/modelhub/pkg/api"
)

func TestNewUnknownProviderFailsAtConstruction(t *testing.T) {
	gen, err := New(api.Selection{Provider: "mistral", Model: "mistral-large"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	assert.Contains(t, err.Error(), "mistral")
	assert.Nil(t, gen)
}

func TestNewGeminiRequiresAPIKey(t *testing.T) {
	_, err := New(api.Selection{Provider: api.ProviderGemini, Model: "gemini-2.5-pro"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestNewGemini(t *testing.T) {
	gen, err := New(api.Selection{
		Provider: api.ProviderGemini,
		Model:    "gemini-2.5-pro",
		APIKey:   "AIza-test",
	})
	require.NoError(t, err)
	assert.NotNil(t, gen)
}

func TestStubConstructsButMethodsFail(t *testing.T) {
	ctx := context.Background()

	for _, provider := range []api.Provider{api.ProviderOpenAI, api.ProviderAnthropic} {
		gen, err := New(api.Selection{Provider: provider, Model: "whatever", APIKey: "sk-123"})
		require.NoError(t, err, "stub providers must construct cleanly")
		require.NotNil(t, gen)

		_, err = gen.GenerateContent(ctx, &api.GenerateRequest{})
		assert.ErrorIs(t, err, ErrNotImplemented)
		assert.Contains(t, err.Error(), string(provider))
		assert.Contains(t, err.Error(), string(api.ProviderGemini))

		_, err = gen.GenerateContentStream(ctx, &api.GenerateRequest{})
		assert.ErrorIs(t, err, ErrNotImplemented)

		_, err = gen.CountTokens(ctx, &api.CountTokensRequest{})
		assert.ErrorIs(t, err, ErrNotImplemented)

		_, err = gen.EmbedContent(ctx, &api.EmbedRequest{})
		assert.ErrorIs(t, err, ErrNotImplemented)
	}
}

func TestStubErrorsAreUniform(t *testing.T) {
	ctx := context.Background()
	gen, err := New(api.Selection{Provider: api.ProviderOpenAI})
	require.NoError(t, err)

	_, genErr := gen.GenerateContent(ctx, &api.GenerateRequest{})
	_, countErr := gen.CountTokens(ctx, &api.CountTokensRequest{})
	assert.Equal(t, genErr.Error(), countErr.Error())
}
