package clock

import "time"

// Clock abstracts wall-clock reads so expiry logic is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns the real clock.
func System() Clock { return systemClock{} }
