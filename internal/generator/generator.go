// Package generator maps a resolved provider selection to a concrete
// content-generation backend behind one shared capability interface.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/oryx-ai/modelhub/internal/generator/gemini"
	"github.com/oryx-ai/modelhub/pkg/api"
)

// ErrUnsupportedProvider is returned by New for providers outside the
// closed set.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// ErrNotImplemented is wrapped by every capability method of a stub
// backend.
var ErrNotImplemented = errors.New("provider backend not implemented")

// ContentGenerator is the capability set every provider backend exposes,
// real or stub. Stream channels close on exhaustion; cancellation is the
// context plus simply not pulling further elements.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, req *api.GenerateRequest) (*api.GenerateResponse, error)
	GenerateContentStream(ctx context.Context, req *api.GenerateRequest) (<-chan api.StreamResult, error)
	CountTokens(ctx context.Context, req *api.CountTokensRequest) (*api.CountTokensResponse, error)
	EmbedContent(ctx context.Context, req *api.EmbedRequest) (*api.EmbedResponse, error)
}

// New constructs the backend for sel.Provider. Unknown providers fail here,
// at construction, so no caller ever holds a generator that is guaranteed
// to fail on every method. OpenAI and Anthropic currently construct as
// stubs: selection and persistence work end to end, and a real backend
// drops in later by replacing only the stub's method bodies.
func New(sel api.Selection) (ContentGenerator, error) {
	switch sel.Provider {
	case api.ProviderGemini:
		return gemini.New(gemini.Options{
			APIKey:  sel.APIKey,
			BaseURL: sel.BaseURL,
			Proxy:   sel.Proxy,
		})
	case api.ProviderOpenAI, api.ProviderAnthropic:
		return newStub(sel.Provider), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, string(sel.Provider))
	}
}
