package clock

import "time"

// Clock abstracts the wall clock so expiry comparisons can be driven by a
// fixed time source in tests.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
