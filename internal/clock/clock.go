// Package clock abstracts time so auto-dismiss timers can run against the
// wall clock, a UI event loop, or a manually advanced clock.
package clock

import (
	"sync"
	"time"
)

// Timer is a pending callback that can be stopped.
type Timer interface {
	// Stop prevents the callback from running. It reports false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Clock tells time and schedules callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns the wall clock. Callbacks run on their own goroutine.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Manual is a deterministic clock. Time only moves when Advance, AdvanceTo
// or RunUntilIdle is called; due callbacks run synchronously on the caller's
// goroutine in deadline order, ties broken by scheduling order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock *Manual
	when  time.Time
	seq   uint64
	f     func()
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{clock: m, when: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	m := t.clock
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.timers {
		if x == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of timers that have not fired or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Next returns the deadline of the earliest pending timer.
func (m *Manual) Next() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t := m.earliest(); t != nil {
		return t.when, true
	}
	return time.Time{}, false
}

// Advance moves time forward by d, firing every timer that falls due.
func (m *Manual) Advance(d time.Duration) int {
	return m.AdvanceTo(m.Now().Add(d))
}

// AdvanceTo moves time to target, firing due timers on the way. Time never
// moves backwards. It returns how many callbacks ran.
func (m *Manual) AdvanceTo(target time.Time) int {
	fired := 0
	for {
		m.mu.Lock()
		t := m.earliest()
		if t == nil || t.when.After(target) {
			if target.After(m.now) {
				m.now = target
			}
			m.mu.Unlock()
			return fired
		}
		m.remove(t)
		if t.when.After(m.now) {
			m.now = t.when
		}
		m.mu.Unlock()

		t.f()
		fired++
	}
}

// RunUntilIdle fires pending timers in order, jumping time to each deadline,
// until none remain or limit callbacks have run. It returns how many ran.
func (m *Manual) RunUntilIdle(limit int) int {
	fired := 0
	for fired < limit {
		next, ok := m.Next()
		if !ok {
			break
		}
		fired += m.AdvanceTo(next)
	}
	return fired
}

func (m *Manual) earliest() *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if best == nil || t.when.Before(best.when) || (t.when.Equal(best.when) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) remove(t *manualTimer) {
	for i, x := range m.timers {
		if x == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}
