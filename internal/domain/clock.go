package domain

import "github.com/jonboulle/clockwork"

// clock stamps LoadedAt on published events.
var clock = clockwork.NewRealClock()

// SetClock replaces the clock used by NewLoadedEvent. Passing nil restores
// the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}
