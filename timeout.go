// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "time"

// Timeout tracks a deadline and/or an idle window for a blocking
// operation, and exposes a cooperative cancellation check. It composes
// two independent limits:
//
//   - a deadline: an absolute instant after which the operation must
//     give up, set via Deadline.
//   - an idle timeout: a maximum duration of inactivity between two
//     units of progress, set via IdleTimeout.
//
// A zero-value Timeout has neither limit and never expires.
type Timeout struct {
	hasDeadline bool
	deadline    time.Time

	idleTimeout time.Duration
	idleStart   time.Time
}

// NewTimeout returns a Timeout with neither a deadline nor an idle
// window set.
func NewTimeout() *Timeout { return &Timeout{} }

// Deadline returns a Timeout that expires at t.
func Deadline(t time.Time) *Timeout {
	return &Timeout{hasDeadline: true, deadline: t}
}

// DeadlineAfter returns a Timeout that expires after d from now.
func DeadlineAfter(d time.Duration) *Timeout {
	return Deadline(time.Now().Add(d))
}

// IdleTimeout returns a Timeout that expires after d of continuous
// inactivity. ResetIdle must be called by the caller each time progress
// is made.
func IdleTimeout(d time.Duration) *Timeout {
	return &Timeout{idleTimeout: d, idleStart: time.Now()}
}

// SetDeadline sets or replaces the Timeout's absolute deadline.
func (t *Timeout) SetDeadline(at time.Time) {
	t.hasDeadline = true
	t.deadline = at
}

// SetIdleTimeout sets or replaces the Timeout's idle window and resets
// its idle clock.
func (t *Timeout) SetIdleTimeout(d time.Duration) {
	t.idleTimeout = d
	t.idleStart = time.Now()
}

// ResetIdle records that progress was made, restarting the idle clock.
func (t *Timeout) ResetIdle() {
	if t == nil {
		return
	}
	t.idleStart = time.Now()
}

// IntersectWith runs fn under the tighter of t and other's limits: the
// earlier deadline and the shorter idle timeout both apply for the
// duration of fn, and t's own limits are restored when fn returns.
func (t *Timeout) IntersectWith(other *Timeout, fn func() error) error {
	if t == nil {
		if other == nil {
			return fn()
		}
		return other.IntersectWith(nil, fn)
	}
	combined := &Timeout{
		hasDeadline: t.hasDeadline,
		deadline:    t.deadline,
		idleTimeout: t.idleTimeout,
		idleStart:   time.Now(),
	}
	if other != nil {
		if other.hasDeadline && (!combined.hasDeadline || other.deadline.Before(combined.deadline)) {
			combined.hasDeadline = true
			combined.deadline = other.deadline
		}
		if other.idleTimeout > 0 && (combined.idleTimeout == 0 || other.idleTimeout < combined.idleTimeout) {
			combined.idleTimeout = other.idleTimeout
		}
	}
	saved := *t
	*t = *combined
	defer func() { *t = saved }()
	return fn()
}

// Expired reports whether the timeout has elapsed: either the deadline
// has passed, or the idle window has elapsed since the last ResetIdle.
func (t *Timeout) Expired() bool {
	if t == nil {
		return false
	}
	now := time.Now()
	if t.hasDeadline && !now.Before(t.deadline) {
		return true
	}
	if t.idleTimeout > 0 && now.Sub(t.idleStart) >= t.idleTimeout {
		return true
	}
	return false
}

// RemainingDeadline returns the duration until the deadline, or 0 if
// there is no deadline set. A negative-clamped-to-zero result means the
// deadline has already passed.
func (t *Timeout) RemainingDeadline() time.Duration {
	if t == nil || !t.hasDeadline {
		return 0
	}
	d := time.Until(t.deadline)
	if d < 0 {
		return 0
	}
	return d
}

// err returns the appropriate TimeoutError for the limit that expired.
func (t *Timeout) err() error {
	if t == nil {
		return nil
	}
	now := time.Now()
	if t.hasDeadline && !now.Before(t.deadline) {
		return &TimeoutError{Idle: false}
	}
	return &TimeoutError{Idle: true}
}
