// Package clock abstracts wall-clock access so stores and schedulers can be
// driven by a fake time source in tests.
package clock

import "time"

// Clock allows injecting time into stores and services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fake is a manually advanced clock for tests. The zero value starts at the
// zero time; use NewFake to pick a base instant.
type Fake struct {
	now time.Time
}

// NewFake returns a fake clock pinned at t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t.UTC()}
}

// Now returns the current fake instant.
func (f *Fake) Now() time.Time {
	return f.now
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// Set pins the fake clock to t.
func (f *Fake) Set(t time.Time) {
	f.now = t.UTC()
}
