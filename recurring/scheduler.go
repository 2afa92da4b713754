/*
scheduler.go - Timer loop and queue worker for the recurring job runner

PURPOSE:
  Drives the two phases of the orchestrator: a ticker fires the trigger
  scan on a fixed interval (cron-equivalent, default daily), and a
  worker goroutine drains the work queue through Process. The two run
  concurrently with each other and with user-initiated mutations; the
  store's transaction isolation carries the consistency guarantees.

USAGE:
  sched := recurring.NewScheduler(runner, log)
  sched.Start()
  // ... later
  sched.Stop()
*/
package recurring

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler runs the trigger loop and the process worker.
type Scheduler struct {
	Runner          *Runner
	TriggerInterval time.Duration

	log    zerolog.Logger
	ticker *time.Ticker
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a scheduler with the default daily trigger.
func NewScheduler(runner *Runner, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Runner:          runner,
		TriggerInterval: 24 * time.Hour,
		log:             log,
	}
}

// Start launches the trigger loop and the queue worker. The first
// trigger runs immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return // already running
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.ticker = time.NewTicker(s.TriggerInterval)

	s.wg.Add(2)
	go s.triggerLoop(ctx)
	go s.processLoop(ctx)

	s.log.Info().Dur("interval", s.TriggerInterval).Msg("recurring scheduler started")
}

// Stop halts both loops and waits for in-flight work to finish. A
// process invocation that has begun runs to completion or failure;
// there is no mid-item cancellation.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.ticker.Stop()
	s.cancel()
	s.wg.Wait()
	s.cancel = nil
	s.log.Info().Msg("recurring scheduler stopped")
}

func (s *Scheduler) triggerLoop(ctx context.Context) {
	defer s.wg.Done()

	s.Runner.Trigger(ctx)

	for {
		select {
		case <-s.ticker.C:
			s.Runner.Trigger(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) processLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case item := <-s.Runner.Queue():
			res := s.Runner.Process(ctx, item)
			if !res.Success && res.Reason != "" {
				s.log.Debug().
					Str("transaction_id", string(item.TransactionID)).
					Str("reason", res.Reason).
					Msg("recurring item skipped")
			}
		case <-ctx.Done():
			return
		}
	}
}
