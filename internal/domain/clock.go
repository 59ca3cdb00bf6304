package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze the report
// generation timestamp. Production code uses the real clock.
var clock = clockwork.NewRealClock()

// Now returns the current time from the active clock.
func Now() time.Time {
	return clock.Now()
}

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
