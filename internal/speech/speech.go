// Package speech converts narration scripts into MP3 audio.
package speech

import (
	"context"
	"fmt"
)

// Synthesizer turns text into encoded audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// APIError is a non-success reply from a speech provider
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s error: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Provider names accepted by New
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

// Options configures New
type Options struct {
	Provider     string
	GoogleAPIKey string
	OpenAIAPIKey string
	Voice        string
}

// New builds the synthesizer for opts.Provider
func New(ctx context.Context, opts Options) (Synthesizer, error) {
	switch opts.Provider {
	case ProviderGoogle, "":
		return NewGoogleTTS(ctx, opts.GoogleAPIKey, opts.Voice)
	case ProviderOpenAI:
		return NewOpenAITTS(opts.OpenAIAPIKey, opts.Voice), nil
	default:
		return nil, fmt.Errorf("unsupported speech provider: %s", opts.Provider)
	}
}
