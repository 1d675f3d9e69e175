// Package clock abstracts time so every date comparison in the command and
// query sides is deterministic under test.
package clock

import "time"

// Clock supplies the current instant and the current calendar date. It is
// injected everywhere dates are compared; nothing in the core reads the
// wall clock directly.
type Clock interface {
	Now() time.Time
	// Today returns the current calendar date as midnight UTC.
	Today() time.Time
}

type systemClock struct{}

// System returns a Clock backed by the wall clock.
func System() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

func (systemClock) Today() time.Time { return Midnight(time.Now()) }

// Fixed is a Clock pinned to a single instant, for tests and replays.
type Fixed struct {
	Instant time.Time
}

// NewFixed returns a Clock frozen at the given instant.
func NewFixed(t time.Time) *Fixed { return &Fixed{Instant: t.UTC()} }

func (f *Fixed) Now() time.Time { return f.Instant }

func (f *Fixed) Today() time.Time { return Midnight(f.Instant) }

// Advance moves the fixed clock forward.
func (f *Fixed) Advance(d time.Duration) { f.Instant = f.Instant.Add(d) }

// Midnight truncates an instant to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
