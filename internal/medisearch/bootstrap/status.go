// Package bootstrap prepares the condition index in the background and
// reports whether the search engine became usable.
package bootstrap

import (
	"sync"
	"sync/atomic"
)

// Status is the search-engine connectivity flag. It is written once, by
// the initializer, and read by every request.
type Status struct {
	connected atomic.Bool
	once      sync.Once
	ready     chan struct{}
}

// NewStatus returns a Status that reports disconnected until set.
func NewStatus() *Status {
	return &Status{ready: make(chan struct{})}
}

// Connected reports whether the engine answered and the index is in place.
func (s *Status) Connected() bool {
	return s.connected.Load()
}

// Ready is closed once the initializer finished, successfully or not.
func (s *Status) Ready() <-chan struct{} {
	return s.ready
}

// set records the outcome. Only the first call has an effect.
func (s *Status) set(connected bool) {
	s.once.Do(func() {
		s.connected.Store(connected)
		close(s.ready)
	})
}
