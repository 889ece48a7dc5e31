package syncer

import "time"

// Clock abstracts wall time and the periodic tick so the scheduler can be
// unit-tested without sleeping.
type Clock interface {
	Now() time.Time
	// Tick returns a channel firing every d, and a stop func releasing it.
	Tick(d time.Duration) (<-chan time.Time, func())
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Tick(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// SystemClock is the production clock.
var SystemClock Clock = systemClock{}
