package clock

import "time"

// Clock is the time source every component reads from.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func New() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }
