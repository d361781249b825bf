// Package service runs generation, narration and tutor chat against the
// configured text model, speech provider and cache.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/pep299/leeai-studio/internal/cache"
	"github.com/pep299/leeai-studio/internal/model"
	"github.com/pep299/leeai-studio/internal/prompt"
)

// Generator produces text from prompts
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Chat(ctx context.Context, transcript string) (string, error)
}

// Synthesizer turns a narration script into MP3 audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

var (
	ErrMissingTool   = errors.New("toolType is required")
	ErrEmptyScript   = errors.New("AI returned empty script.")
	ErrEmptyMessage  = errors.New("message is required")
	ErrNoSynthesizer = errors.New("speech synthesis is not configured")
)

// Options bounds the text sent upstream and the chat memory
type Options struct {
	ContextLimit int
	ScriptLimit  int
	HistoryLimit int
}

// Studio is shared by every request of a server
type Studio struct {
	gen   Generator
	tts   Synthesizer
	cache *cache.Manager
	opts  Options

	mu      sync.Mutex
	history []string
}

// New creates a Studio. tts and cache may be nil.
func New(gen Generator, tts Synthesizer, cm *cache.Manager, opts Options) *Studio {
	return &Studio{gen: gen, tts: tts, cache: cm, opts: opts}
}

// Generate returns the raw text for a tool request, serving repeats from the
// cache unless the request asks to regenerate. The text is not parsed here.
func (s *Studio) Generate(ctx context.Context, req model.GenerateRequest) (string, error) {
	if strings.TrimSpace(string(req.ToolType)) == "" {
		return "", ErrMissingTool
	}
	req.Context = prompt.Truncate(req.Context, s.opts.ContextLimit)

	if s.cache != nil && !req.Regenerate {
		if text, err := s.cache.GetGenerated(ctx, req); err == nil {
			log.Printf("Cache hit for %s", req.ToolType)
			return text, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("Cache lookup failed for %s: %v", req.ToolType, err)
		}
	}

	text, err := s.gen.Generate(ctx, prompt.System(req), prompt.User(req.ToolType, req.Context))
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", req.ToolType, err)
	}

	if s.cache != nil {
		if err := s.cache.SetGenerated(ctx, req, text); err != nil {
			log.Printf("Error caching %s: %v", req.ToolType, err)
		}
	}
	return text, nil
}

// Audio writes a narration script for the request context and synthesizes it
func (s *Studio) Audio(ctx context.Context, req model.GenerateRequest) ([]byte, error) {
	if s.tts == nil {
		return nil, ErrNoSynthesizer
	}

	material := prompt.Truncate(req.Context, s.opts.ContextLimit)
	script, err := s.gen.Generate(ctx, prompt.NarrationSystem, prompt.NarrationUser(material))
	if err != nil {
		return nil, fmt.Errorf("writing narration: %w", err)
	}
	if strings.TrimSpace(script) == "" {
		return nil, ErrEmptyScript
	}

	audio, err := s.tts.Synthesize(ctx, prompt.CapScript(script, s.opts.ScriptLimit))
	if err != nil {
		return nil, fmt.Errorf("synthesizing narration: %w", err)
	}
	log.Printf("Synthesized %d bytes of audio", len(audio))
	return audio, nil
}

// Chat sends the message with the running transcript and records both turns.
// A failed reply leaves the history untouched.
func (s *Studio) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(append([]string(nil), s.history...), prompt.ChatTurn(prompt.RoleUser, message))
	reply, err := s.gen.Chat(ctx, prompt.Transcript(turns))
	if err != nil {
		return "", fmt.Errorf("tutor reply: %w", err)
	}

	s.history = append(turns, prompt.ChatTurn(prompt.RoleTutor, reply))
	if limit := s.opts.HistoryLimit; limit > 0 && len(s.history) > limit {
		s.history = append([]string(nil), s.history[len(s.history)-limit:]...)
	}
	return reply, nil
}

// History returns a copy of the chat transcript lines
func (s *Studio) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// ResetChat forgets the transcript
func (s *Studio) ResetChat() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}
