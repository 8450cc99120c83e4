package orchestrator

import (
	"context"
	"log"
	"time"
)

// Scheduler rotates the fingerprint resource on a fixed interval. The
// rotation itself runs under the fingerprint manager's write lock, so a
// scheduled tick and a manual rotation serialize instead of racing; a failed
// rotation is logged and never stops the loop.
type Scheduler struct {
	interval time.Duration
	rotate   func()
	observe  func(trigger string) // optional metrics hook

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler builds a scheduler around a rotate function. observe may be
// nil.
func NewScheduler(interval time.Duration, rotate func(), observe func(trigger string)) *Scheduler {
	return &Scheduler{
		interval: interval,
		rotate:   rotate,
		observe:  observe,
	}
}

// Start launches the rotation loop. It returns immediately; Stop (or ctx
// cancellation) ends the loop.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runRotation("scheduled")
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. Safe to call once after
// Start.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// RotateNow runs one rotation on the caller's goroutine, sharing the same
// critical section as scheduled ticks.
func (s *Scheduler) RotateNow() {
	s.runRotation("manual")
}

func (s *Scheduler) runRotation(trigger string) {
	defer func() {
		if r := recover(); r != nil {
			// A panicking rotation must not poison the loop or the lock;
			// the deferred unlock in the manager has already run by the
			// time the panic reaches us.
			log.Printf("scheduler: %s rotation panicked: %v", trigger, r)
		}
	}()

	s.rotate()
	if s.observe != nil {
		s.observe(trigger)
	}
	log.Printf("scheduler: fingerprints rotated (%s)", trigger)
}
