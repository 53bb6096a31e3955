// Package barrier implements the P-party reusable rendezvous the superstep
// engine uses to gate the phases of Sync. It follows a mixed policy: a
// waiter first spins for a bounded number of iterations checking a shared
// counter and an abort flag, then falls back to a condition-variable wait
// so idle processes don't burn CPU between long supersteps. Grounded on the
// spin-then-notify shape of the teacher's EnhancedEpoch.WaitForChange and
// the mutex/cond rendezvous pattern used across the example pack.
package barrier

import (
	"errors"
	"runtime"
	"sync"
)

// ErrAborted is returned by Wait when the caller-supplied abort check
// fires before or during the rendezvous.
var ErrAborted = errors.New("barrier: aborted")

// defaultSpinIterations bounds how long a waiter busy-spins before parking
// on the condition variable. Kept small: supersteps are typically much
// shorter than an OS thread wake-up, so a short spin usually lets a
// waiter avoid the park/wake round-trip entirely.
const defaultSpinIterations = 4000

// Barrier is a reusable P-party rendezvous with abort-aware wakeup.
type Barrier struct {
	mu   sync.Mutex
	cond *sync.Cond

	p          int32
	count      int32
	generation uint64

	spinIterations int
}

// New returns a Barrier sized for p participants. SetSize may be called
// again later to resize it for a new Begin cycle.
func New(p int) *Barrier {
	return NewWithSpin(p, defaultSpinIterations)
}

// NewWithSpin is New with an explicit spin-iteration bound, letting a
// caller trade the spin/park crossover point for its own workload.
func NewWithSpin(p, spinIterations int) *Barrier {
	b := &Barrier{spinIterations: spinIterations}
	b.cond = sync.NewCond(&b.mu)
	b.SetSize(p)
	return b
}

// SetSize (re)configures the barrier for p participants. Must be called
// before the first Wait of a cycle, and never while participants are
// mid-Wait.
func (b *Barrier) SetSize(p int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.p = int32(p)
	b.count = 0
}

// Aborted is checked by Wait at each polling point, on both the spin and
// the parked path. It should be cheap: a single atomic load.
type Aborted func() bool

// Wait blocks until all p participants have called Wait on this barrier
// since the last time it fired, or until aborted reports true. When the
// barrier fires normally it resets itself so the next round can begin
// immediately, race-free with respect to participants that re-enter Wait
// before the last waiter has returned.
func (b *Barrier) Wait(aborted Aborted) error {
	if aborted() {
		return ErrAborted
	}

	b.mu.Lock()
	gen := b.generation
	b.count++
	arrived := b.count
	target := b.p
	b.mu.Unlock()

	if arrived == target {
		b.mu.Lock()
		b.count = 0
		b.generation++
		b.cond.Broadcast()
		b.mu.Unlock()
		return nil
	}

	for i := 0; i < b.spinIterations; i++ {
		if aborted() {
			b.Abandon()
			return ErrAborted
		}
		b.mu.Lock()
		done := b.generation != gen
		b.mu.Unlock()
		if done {
			return nil
		}
		runtime.Gosched()
	}

	b.mu.Lock()
	for b.generation == gen {
		if aborted() {
			b.mu.Unlock()
			b.Abandon()
			return ErrAborted
		}
		b.cond.Wait()
	}
	b.mu.Unlock()
	return nil
}

// Abandon wakes every waiter parked on the condition variable without
// advancing the generation. Callers use this to propagate an abort signal
// set from outside the barrier so parked waiters re-check Aborted promptly
// instead of waiting for the next natural Broadcast.
func (b *Barrier) Abandon() {
	b.mu.Lock()
	b.cond.Broadcast()
	b.mu.Unlock()
}
