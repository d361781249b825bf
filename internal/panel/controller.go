package panel

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/pep299/leeai-studio/internal/model"
)

var (
	// ErrBusy is returned by Run while another tool is loading
	ErrBusy = errors.New("a tool is already running")
	// ErrDiscarded is returned by a Run whose panel was closed before the
	// reply arrived
	ErrDiscarded = errors.New("panel closed before the result arrived")
)

// Phase is where a panel is in its lifecycle
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// State is a snapshot of the panel. After a terminal transition exactly one
// of Content/AudioPath or Err is set.
type State struct {
	Tool         model.ToolType
	QuestionType model.QuestionType
	Phase        Phase
	Content      string
	AudioPath    string
	Err          string
}

// Controller serialises tool runs for one panel
type Controller struct {
	backend Backend
	dir     string

	mu    sync.Mutex
	run   uint64
	state State
}

// NewController creates a Controller. Audio files go to dir, or to the
// system temp directory when dir is empty.
func NewController(backend Backend, dir string) *Controller {
	return &Controller{backend: backend, dir: dir}
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run generates req and blocks until it settles. The context is not tied to
// Close: a closed panel lets the request finish and drops the result.
func (c *Controller) Run(ctx context.Context, req model.GenerateRequest) (State, error) {
	c.mu.Lock()
	if c.state.Phase == Loading {
		c.mu.Unlock()
		return State{}, ErrBusy
	}
	c.releaseAudio()
	c.run++
	id := c.run
	c.state = State{Tool: req.ToolType, Phase: Loading}
	if req.ToolType == model.ToolQuiz {
		c.state.QuestionType = req.Questions()
	}
	next := c.state
	c.mu.Unlock()

	if req.ToolType == model.ToolAudioSummary {
		path, err := c.fetchAudio(ctx, req)
		if err != nil {
			next.Phase, next.Err = Failed, ErrorMessage(err)
		} else {
			next.Phase, next.AudioPath = Ready, path
		}
	} else {
		text, err := c.backend.Generate(ctx, req)
		if err != nil {
			next.Phase, next.Err = Failed, ErrorMessage(err)
		} else {
			next.Phase, next.Content = Ready, text
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if id != c.run {
		removeAudio(next.AudioPath)
		return State{}, ErrDiscarded
	}
	c.state = next
	return next, nil
}

func (c *Controller) fetchAudio(ctx context.Context, req model.GenerateRequest) (string, error) {
	audio, err := c.backend.Audio(ctx, req)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(c.dir, "audio-summary-*.mp3")
	if err != nil {
		return "", fmt.Errorf("creating audio file: %w", err)
	}
	if _, err := f.Write(audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing audio file: %w", err)
	}
	return f.Name(), nil
}

// Close resets the panel and releases its audio file. A run still in
// flight is orphaned.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseAudio()
	c.run++
	c.state = State{}
}

// releaseAudio must be called with mu held
func (c *Controller) releaseAudio() {
	removeAudio(c.state.AudioPath)
	c.state.AudioPath = ""
}

func removeAudio(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to remove audio file %s: %v", path, err)
	}
}
