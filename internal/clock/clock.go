package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts wall-clock reads so derived installment statuses are
// testable against a fixed point in time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystemClock() Clock {
	return SystemClock{}
}

// Module provides the system clock.
var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
