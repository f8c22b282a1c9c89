package statv

import (
	"context"

	"github.com/zoobzio/capitan"
)

// waiter is a one-shot suspension handle: pending until its channel is
// closed by a broadcast, or abandoned by the consumer. Either way it is
// removed from the container's waiter set and never reused.
type waiter struct {
	done chan struct{}
}

// WaitForUpdate suspends the calling goroutine until the next completed
// write to any stat, then returns the container. The waiter is registered
// before this method returns control to the scheduler, so a write issued
// after WaitForUpdate is entered cannot be missed.
//
// If ctx is canceled first, the waiter is deregistered and the context's
// error is returned.
func (sv *Statv) WaitForUpdate(ctx context.Context) (*Statv, error) {
	w := sv.addWaiter()
	select {
	case <-w.done:
		return sv, nil
	case <-ctx.Done():
		sv.removeWaiter(w)
		return nil, ctx.Err()
	}
}

// WaitForAvailable suspends until the availability predicate is observed
// true, re-checking it after every broadcast. It returns immediately if
// the container is already available. Spurious wakeups (writes that do
// not flip the predicate) simply re-enter the wait.
func (sv *Statv) WaitForAvailable(ctx context.Context) error {
	return sv.waitFor(ctx, true)
}

// WaitForUnavailable is the symmetric helper: it suspends until the
// availability predicate is observed false.
func (sv *Statv) WaitForUnavailable(ctx context.Context) error {
	return sv.waitFor(ctx, false)
}

// waitFor loops until Available() == want. The waiter is registered
// before the predicate check so a write between check and suspend still
// wakes this consumer.
func (sv *Statv) waitFor(ctx context.Context, want bool) error {
	for {
		w := sv.addWaiter()
		if sv.Available() == want {
			sv.removeWaiter(w)
			return nil
		}
		select {
		case <-w.done:
		case <-ctx.Done():
			sv.removeWaiter(w)
			return ctx.Err()
		}
	}
}

// Waiters returns the number of consumers currently suspended.
func (sv *Statv) Waiters() int {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return len(sv.waiters)
}

func (sv *Statv) addWaiter() *waiter {
	w := &waiter{done: make(chan struct{})}
	sv.mu.Lock()
	sv.waiters[w] = struct{}{}
	sv.mu.Unlock()
	return w
}

// removeWaiter deregisters an abandoned waiter. It is a no-op for a
// waiter a broadcast already resolved and removed.
func (sv *Statv) removeWaiter(w *waiter) {
	sv.mu.Lock()
	delete(sv.waiters, w)
	sv.mu.Unlock()
}

// broadcastLocked resolves every pending waiter exactly once and clears
// the set. Called with sv.mu held, after all commits for the triggering
// write or UpdateMulti call.
func (sv *Statv) broadcastLocked() {
	woken := len(sv.waiters)
	for w := range sv.waiters {
		close(w.done)
		delete(sv.waiters, w)
	}

	capitan.Emit(context.Background(), BroadcastIssued,
		KeyWaiters.Field(woken),
	)
}
