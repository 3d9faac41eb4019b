package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Mock is a settable clock for tests.
type Mock struct {
	mutex sync.Mutex
	now   time.Time
}

func NewMock(now time.Time) *Mock {
	return &Mock{now: now}
}

func (m *Mock) Now() time.Time {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.now
}

func (m *Mock) Set(now time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.now = now
}

func (m *Mock) Advance(d time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.now = m.now.Add(d)
}
