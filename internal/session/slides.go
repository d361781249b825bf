package session

import "sync"

// ThemeCount is the number of slide background themes; slide i uses theme
// i mod ThemeCount.
const ThemeCount = 5

// NavEventKind enumerates slide navigator inputs
type NavEventKind int

const (
	NavSet NavEventKind = iota + 1
	NavNext
	NavPrev
)

// NavEvent is an input to the slide navigator. Index is only read for NavSet.
type NavEvent struct {
	Kind  NavEventKind
	Index int
}

// NavState is the slide navigator
type NavState struct {
	Current int
}

// Step applies ev for a deck of n slides. Moves past either end and jumps
// out of range are no-ops.
func (s NavState) Step(n int, ev NavEvent) NavState {
	if n == 0 {
		return s
	}
	switch ev.Kind {
	case NavSet:
		if ev.Index >= 0 && ev.Index < n {
			s.Current = ev.Index
		}
	case NavNext:
		s.Current = clamp(s.Current+1, 0, n-1)
	case NavPrev:
		s.Current = clamp(s.Current-1, 0, n-1)
	}
	return s
}

// Theme returns the background theme index of the current slide
func (s NavState) Theme() int {
	return s.Current % ThemeCount
}

// Navigator drives a NavState over n slides
type Navigator struct {
	mu    sync.Mutex
	n     int
	state NavState
}

func NewNavigator(n int) *Navigator {
	return &Navigator{n: n}
}

func (v *Navigator) send(ev NavEvent) NavState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = v.state.Step(v.n, ev)
	return v.state
}

func (v *Navigator) Len() int { return v.n }

func (v *Navigator) State() NavState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// SetSlide jumps to slide i, as a thumbnail click does
func (v *Navigator) SetSlide(i int) NavState { return v.send(NavEvent{Kind: NavSet, Index: i}) }
func (v *Navigator) Next() NavState          { return v.send(NavEvent{Kind: NavNext}) }
func (v *Navigator) Prev() NavState          { return v.send(NavEvent{Kind: NavPrev}) }
