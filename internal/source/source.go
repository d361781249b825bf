// Package source loads study material (pasted text, links and files) and
// joins it into the context string sent with every tool request.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Kind is how a source was added
type Kind string

const (
	KindText Kind = "text"
	KindLink Kind = "link"
	KindFile Kind = "file"
)

// Source is one piece of notebook material
type Source struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Kind    Kind      `json:"type"`
	Content string    `json:"content"`
}

// NewText creates a pasted-text source. Blank text yields false.
func NewText(name, text string) (Source, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Source{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Pasted text"
	}
	return Source{ID: uuid.New(), Name: name, Kind: KindText, Content: text}, true
}

// BuildContext numbers the sources and separates them with rules. No
// sources gives the empty string.
func BuildContext(sources []Source) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = fmt.Sprintf("[Source %d: %s]\n%s", i+1, s.Name, s.Content)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// Spec describes a source to load. Value is the text, URL or file path.
type Spec struct {
	Kind  Kind
	Name  string
	Value string
}

// Loader resolves specs into sources
type Loader struct {
	Links *LinkLoader
}

// NewLoader creates a Loader with a default LinkLoader
func NewLoader() *Loader {
	return &Loader{Links: NewLinkLoader()}
}

// Load resolves a single spec
func (l *Loader) Load(ctx context.Context, spec Spec) (Source, error) {
	switch spec.Kind {
	case KindText:
		src, ok := NewText(spec.Name, spec.Value)
		if !ok {
			return Source{}, fmt.Errorf("text source %q is empty", spec.Name)
		}
		return src, nil
	case KindLink:
		return l.Links.Load(ctx, spec.Name, spec.Value)
	case KindFile:
		return LoadFile(spec.Value)
	default:
		return Source{}, fmt.Errorf("unknown source kind: %q", spec.Kind)
	}
}

// LoadAll loads specs concurrently. Sources come back in spec order; the
// first failure cancels the rest.
func (l *Loader) LoadAll(ctx context.Context, specs []Spec) ([]Source, error) {
	sources := make([]Source, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, spec := range specs {
		g.Go(func() error {
			src, err := l.Load(ctx, spec)
			if err != nil {
				return fmt.Errorf("loading source %d: %w", i+1, err)
			}
			sources[i] = src
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}
