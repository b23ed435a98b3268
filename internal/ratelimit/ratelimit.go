// package ratelimit implements a sliding-window admission queue for calls to
// rate-limited external APIs.
//
// Unlike a token bucket, the limiter records the timestamp of every admitted
// call and guarantees that no trailing window ever contains more than the
// configured number of admissions. Queued calls are executed strictly one at
// a time in submission order, so the limiter bounds both call rate and
// concurrency.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/artx/internal/shared"
)

// interCallDelay is a courtesy backoff imposed between successive admissions
// so the window rollover does not produce an immediate burst.
const interCallDelay = 100 * time.Millisecond

// Call is a unit of work submitted to the limiter. The limiter executes it
// once admitted and delivers its result verbatim.
type Call func() (any, error)

// Outcome carries the result of a completed call.
type Outcome struct {
	Value any
	Err   error
}

type task struct {
	call Call
	out  chan Outcome
}

// Limiter serializes calls to a shared external resource so that no more
// than maxCalls are admitted inside any trailing window. The queue is
// unbounded; Enqueue never blocks and never drops a call.
//
// One Limiter instance is created per external service and lives for the
// process lifetime. Independent Limiter instances do not share state.
type Limiter struct {
	maxCalls int
	window   time.Duration

	mu         sync.Mutex
	queue      []*task
	admissions []time.Time
	draining   bool

	// now and sleep are swapped out in tests
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a Limiter admitting at most maxCalls calls per trailing window.
// Non-positive arguments indicate a programming error and fail fast.
func New(maxCalls int, window time.Duration) (*Limiter, error) {
	if maxCalls <= 0 {
		return nil, fmt.Errorf("%w: maxCalls must be positive, got %d", shared.ErrRateLimiterConfig, maxCalls)
	}
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %v", shared.ErrRateLimiterConfig, window)
	}

	return &Limiter{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
		sleep:    time.Sleep,
	}, nil
}

// Enqueue submits a call for rate-limited execution and returns a channel
// that receives exactly one Outcome carrying the call's own result or
// failure. Results settle in submission order.
func (l *Limiter) Enqueue(call Call) <-chan Outcome {
	t := &task{call: call, out: make(chan Outcome, 1)}

	l.mu.Lock()
	l.queue = append(l.queue, t)
	start := !l.draining
	if start {
		l.draining = true
	}
	l.mu.Unlock()

	if start {
		go l.drain()
	}

	return t.out
}

// QueueDepth reports the number of calls waiting for admission.
func (l *Limiter) QueueDepth() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// InWindow reports the number of admissions recorded inside the current
// trailing window.
func (l *Limiter) InWindow() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(l.now()))
}

// drain is the single worker loop. It pops the head of the queue, waits for
// admission, executes the call, delivers the outcome, and imposes the
// courtesy delay before considering the next call.
func (l *Limiter) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.draining = false
			l.mu.Unlock()
			return
		}
		t := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.awaitAdmission()
		t.out <- l.run(t.call)
		l.sleep(interCallDelay)
	}
}

// awaitAdmission blocks until a call may be admitted, then records the
// admission timestamp. Expired timestamps can cluster, so the wait is a loop
// rather than a single sleep.
func (l *Limiter) awaitAdmission() {
	for {
		l.mu.Lock()
		now := l.now()
		l.admissions = l.prune(now)

		if len(l.admissions) < l.maxCalls {
			l.admissions = append(l.admissions, now)
			l.mu.Unlock()
			return
		}

		oldest := l.admissions[0]
		wait := oldest.Add(l.window).Sub(now)
		l.mu.Unlock()

		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		l.sleep(wait)
	}
}

// prune discards admission timestamps older than the window. Callers must
// hold l.mu.
func (l *Limiter) prune(now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	kept := l.admissions
	for len(kept) > 0 && !kept[0].After(cutoff) {
		kept = kept[1:]
	}
	return kept
}

// run executes a call, converting panics into errors so a misbehaving call
// never kills the drain loop or strands queued calls.
func (l *Limiter) run(call Call) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("call panicked: %v", r)}
		}
	}()

	value, err := call()
	return Outcome{Value: value, Err: err}
}
