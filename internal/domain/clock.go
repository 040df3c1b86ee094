package domain

import "github.com/jonboulle/clockwork"

// clock paces geocoding requests and times backoff waits. Tests swap it via
// SetClock so waits are observed instead of slept.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by the Resolver. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
