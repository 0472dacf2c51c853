package pool

import "time"

// Clock abstracts wall time so tests can drive the 7/14/30/90-day
// windows without sleeping. The real pool always reads time through it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-clock implementation used by default.
func SystemClock() Clock { return systemClock{} }
