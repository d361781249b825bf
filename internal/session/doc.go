// Package session holds the interaction state machines behind the
// interactive tools: the flashcard deck, the quiz session and the slide
// navigator.
//
// Each machine is a plain state value with a Step method that returns the
// next state without touching the receiver. Deck, Quiz and Navigator wrap
// those values with a mutex for callers that want a stateful handle.
package session
