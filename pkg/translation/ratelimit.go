package translation

import (
	"context"
	"sync"
	"time"
)

// safetyMargin is added to each computed wait so re-evaluation happens
// just past the oldest observation's expiry.
const safetyMargin = 50 * time.Millisecond

type charObservation struct {
	at    time.Time
	chars int
}

// charWindow tracks translated character counts over a sliding trailing window.
// The mutex guards only the window accounting, never a network call.
type charWindow struct {
	mu      sync.Mutex
	budget  int
	window  time.Duration
	entries []charObservation
	now     func() time.Time
}

func newCharWindow(budget int, window time.Duration) *charWindow {
	return &charWindow{
		budget: budget,
		window: window,
		now:    time.Now,
	}
}

// Wait blocks until n characters fit within the window budget or ctx is done.
// Requests are delayed, never rejected. A request larger than the whole budget
// is admitted once the window is empty.
func (w *charWindow) Wait(ctx context.Context, n int) error {
	for {
		w.mu.Lock()
		now := w.now()
		w.evict(now)

		sum := 0
		for _, obs := range w.entries {
			sum += obs.chars
		}

		if sum+n <= w.budget || len(w.entries) == 0 {
			w.mu.Unlock()
			return nil
		}

		wait := w.entries[0].at.Add(w.window).Sub(now) + safetyMargin
		w.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Record registers n sent characters. Called only after a successful send.
func (w *charWindow) Record(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	w.evict(now)
	w.entries = append(w.entries, charObservation{at: now, chars: n})
}

// evict drops observations older than the trailing window. Caller holds the lock.
func (w *charWindow) evict(now time.Time) {
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(w.entries) && !w.entries[i].at.After(cutoff) {
		i++
	}
	if i > 0 {
		w.entries = w.entries[i:]
	}
}

// used returns the character sum currently inside the window.
func (w *charWindow) used() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.evict(w.now())
	sum := 0
	for _, obs := range w.entries {
		sum += obs.chars
	}
	return sum
}
