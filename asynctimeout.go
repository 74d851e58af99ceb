// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"container/heap"
	"sync"
	"time"
)

// AsyncTimeout is a Timeout enforced by a single background watchdog
// goroutine shared across every AsyncTimeout in the process, rather
// than by a per-call timer. Enter registers the current deadline on a
// min-heap keyed by expiry instant; Exit removes it. When the watchdog
// wakes and finds an expired entry at the top of the heap, it invokes
// that entry's onTimeout callback, which is expected to interrupt the
// blocked operation (closing the underlying descriptor, for example).
//
// This mirrors doing one timer instead of thousands: sockets and files
// that set short idle timeouts don't each need their own time.Timer.
type AsyncTimeout struct {
	*Timeout

	onTimeout func()

	mu      sync.Mutex
	entry   *watchdogEntry
	expires time.Time
}

// NewAsyncTimeout returns an AsyncTimeout that invokes onTimeout from
// the shared watchdog goroutine when its deadline or idle window
// elapses while Enter/Exit bracket a blocking call.
func NewAsyncTimeout(onTimeout func()) *AsyncTimeout {
	return &AsyncTimeout{
		Timeout:   NewTimeout(),
		onTimeout: onTimeout,
	}
}

// Enter arms the watchdog for the upcoming blocking operation, using
// the tighter of the deadline and the idle window as the expiry.
func (a *AsyncTimeout) Enter() {
	a.mu.Lock()
	defer a.mu.Unlock()

	expires := a.nextExpiry()
	if expires.IsZero() {
		return
	}
	a.expires = expires
	a.entry = globalWatchdog.schedule(expires, a.fire)
}

// Exit disarms the watchdog, reporting whether the timeout fired before
// Exit was reached (in which case the caller's operation was
// interrupted and should surface a timeout error).
func (a *AsyncTimeout) Exit() (timedOut bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.entry == nil {
		return false
	}
	fired := globalWatchdog.cancel(a.entry)
	a.entry = nil
	return fired
}

func (a *AsyncTimeout) nextExpiry() time.Time {
	now := time.Now()
	var expires time.Time
	if a.hasDeadline {
		expires = a.deadline
	}
	if a.idleTimeout > 0 {
		idleExpiry := now.Add(a.idleTimeout)
		if expires.IsZero() || idleExpiry.Before(expires) {
			expires = idleExpiry
		}
	}
	return expires
}

func (a *AsyncTimeout) fire() {
	if a.onTimeout != nil {
		a.onTimeout()
	}
}

// watchdogEntry is one scheduled expiry on the shared watchdog's heap.
type watchdogEntry struct {
	expires time.Time
	fire    func()
	index   int
	fired   bool
}

type watchdogHeap []*watchdogEntry

func (h watchdogHeap) Len() int            { return len(h) }
func (h watchdogHeap) Less(i, j int) bool  { return h[i].expires.Before(h[j].expires) }
func (h watchdogHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *watchdogHeap) Push(x any) {
	e := x.(*watchdogEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *watchdogHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// watchdog is the process-wide AsyncTimeout scheduler: a single
// goroutine that sleeps until the nearest scheduled expiry, fires any
// entries that have matured, and goes back to sleep.
type watchdog struct {
	mu      sync.Mutex
	cond    *sync.Cond
	h       watchdogHeap
	started bool
}

var globalWatchdog = newWatchdog()

func newWatchdog() *watchdog {
	w := &watchdog{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *watchdog) schedule(expires time.Time, fire func()) *watchdogEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	e := &watchdogEntry{expires: expires, fire: fire}
	heap.Push(&w.h, e)
	w.ensureRunning()
	w.cond.Broadcast()
	return e
}

// cancel removes e from the heap if still pending, returning whether it
// had already fired before cancellation won the race.
func (w *watchdog) cancel(e *watchdogEntry) (fired bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e.fired {
		return true
	}
	if e.index >= 0 && e.index < len(w.h) && w.h[e.index] == e {
		heap.Remove(&w.h, e.index)
	}
	return false
}

func (w *watchdog) ensureRunning() {
	if w.started {
		return
	}
	w.started = true
	go w.run()
}

func (w *watchdog) run() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for {
		for len(w.h) == 0 {
			w.cond.Wait()
		}
		next := w.h[0]
		wait := time.Until(next.expires)
		if wait > 0 {
			// Sleep on the condition variable so that schedule's Broadcast
			// of a nearer entry wakes the loop early; the timer wakes it
			// when this entry matures.
			timer := time.AfterFunc(wait, func() {
				w.mu.Lock()
				w.cond.Broadcast()
				w.mu.Unlock()
			})
			w.cond.Wait()
			timer.Stop()
			continue
		}
		heap.Pop(&w.h)
		next.fired = true
		fire := next.fire
		w.mu.Unlock()
		fire()
		w.mu.Lock()
	}
}
