package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pep299/leeai-studio/internal/model"
)

// FlipResetDelay is how long an advance waits for the card to turn face up
// before the index moves.
const FlipResetDelay = 120 * time.Millisecond

// DeckEvent is an input to the flashcard deck machine
type DeckEvent int

const (
	DeckFlip DeckEvent = iota + 1
	DeckNext
	DeckPrev
	// DeckSettle applies the oldest pending move
	DeckSettle
	DeckToggleShuffle
)

// DeckState is the flashcard deck. The card on screen is
// cards[Order[Index]].
type DeckState struct {
	Index    int
	Flipped  bool
	Order    []int
	Shuffled bool
	// Pending holds moves (+1/-1) issued but not yet settled
	Pending []int
}

// NewDeckState returns the initial state for a deck of n cards
func NewDeckState(n int) DeckState {
	return DeckState{Order: identity(n)}
}

// Step applies ev and returns the next state; s is not modified. rng is only
// consulted when shuffling.
func (s DeckState) Step(ev DeckEvent, rng *rand.Rand) DeckState {
	n := len(s.Order)
	if n == 0 {
		return s
	}

	switch ev {
	case DeckFlip:
		s.Flipped = !s.Flipped
	case DeckNext, DeckPrev:
		dir := 1
		if ev == DeckPrev {
			dir = -1
		}
		s.Flipped = false
		s.Pending = append(append([]int(nil), s.Pending...), dir)
	case DeckSettle:
		if len(s.Pending) == 0 {
			return s
		}
		s.Index = clamp(s.Index+s.Pending[0], 0, n-1)
		s.Pending = append([]int(nil), s.Pending[1:]...)
	case DeckToggleShuffle:
		if s.Shuffled {
			s.Order = identity(n)
		} else {
			s.Order = permutation(n, rng)
		}
		s.Shuffled = !s.Shuffled
		s.Index = 0
		s.Flipped = false
	}
	return s
}

// Deck drives a DeckState for a parsed set of cards. It is safe for
// concurrent use.
type Deck struct {
	// Delay overrides FlipResetDelay; zero settles immediately
	Delay time.Duration

	mu    sync.Mutex
	cards []model.Card
	state DeckState
	rng   *rand.Rand
}

// NewDeck creates a deck over cards. A nil rng is replaced by a time-seeded one.
func NewDeck(cards []model.Card, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Deck{
		Delay: FlipResetDelay,
		cards: cards,
		state: NewDeckState(len(cards)),
		rng:   rng,
	}
}

func (d *Deck) apply(ev DeckEvent) {
	d.mu.Lock()
	d.state = d.state.Step(ev, d.rng)
	d.mu.Unlock()
}

// Len returns the number of cards
func (d *Deck) Len() int { return len(d.cards) }

// State returns a snapshot of the current state
func (d *Deck) State() DeckState {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.state
	s.Order = append([]int(nil), s.Order...)
	s.Pending = append([]int(nil), s.Pending...)
	return s
}

// Current returns the card on screen and whether its answer side is showing
func (d *Deck) Current() (model.Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cards) == 0 {
		return model.Card{}, false
	}
	return d.cards[d.state.Order[d.state.Index]], d.state.Flipped
}

func (d *Deck) Flip()          { d.apply(DeckFlip) }
func (d *Deck) ToggleShuffle() { d.apply(DeckToggleShuffle) }

// Next turns the card face up, waits Delay, then moves forward.
// Moving past the last card is a no-op.
func (d *Deck) Next() { d.advance(DeckNext) }

// Prev is Next in the other direction
func (d *Deck) Prev() { d.advance(DeckPrev) }

func (d *Deck) advance(ev DeckEvent) {
	d.apply(ev)
	if d.Delay > 0 {
		time.Sleep(d.Delay)
	}
	d.apply(DeckSettle)
}

func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// permutation returns a uniformly random ordering of 0..n-1 (Fisher-Yates)
func permutation(n int, rng *rand.Rand) []int {
	order := identity(n)
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
