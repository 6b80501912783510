package harness

import "sync/atomic"

// Flag is a completion signal shared between the harness goroutines.
//
// Each call to IsSet() performs a single atomic load, cheap enough to
// poll from a hot loop. The flag belongs to the harness, never to the
// queue under test.
type Flag struct {
	set atomic.Bool
}

// NewFlag creates an unset Flag.
func NewFlag() *Flag {
	return &Flag{}
}

// Set raises the flag. Safe to call multiple times.
func (f *Flag) Set() {
	f.set.Store(true)
}

// IsSet reports whether the flag has been raised.
func (f *Flag) IsSet() bool {
	return f.set.Load()
}

// Reset clears the flag.
//
// Useful for reusing the flag without reallocation.
// Not safe to call concurrently with Set() or IsSet().
func (f *Flag) Reset() {
	f.set.Store(false)
}
