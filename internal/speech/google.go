package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"
)

// DefaultGoogleVoice is a neutral US English voice
const DefaultGoogleVoice = "en-US-Neural2-F"

// GoogleTTS synthesizes speech with Cloud Text-to-Speech
type GoogleTTS struct {
	svc   *texttospeech.Service
	voice string
}

// NewGoogleTTS creates a client authenticated by API key. Extra options are
// passed to the generated client, which tests use to point it elsewhere.
func NewGoogleTTS(ctx context.Context, apiKey, voice string, opts ...option.ClientOption) (*GoogleTTS, error) {
	if voice == "" {
		voice = DefaultGoogleVoice
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating text-to-speech service: %w", err)
	}
	return &GoogleTTS{svc: svc, voice: voice}, nil
}

// Synthesize returns MP3 audio for text
func (g *GoogleTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: languageCode(g.voice),
			Name:         g.voice,
		},
		AudioConfig: &texttospeech.AudioConfig{AudioEncoding: "MP3"},
	}

	resp, err := g.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &APIError{Provider: "Google TTS", StatusCode: gerr.Code, Body: gerr.Message}
		}
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decoding audio content: %w", err)
	}
	return audio, nil
}

// languageCode derives "en-US" from a voice name such as "en-US-Neural2-F"
func languageCode(voice string) string {
	dash := 0
	for i, r := range voice {
		if r == '-' {
			dash++
			if dash == 2 {
				return voice[:i]
			}
		}
	}
	return "en-US"
}
