package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/semaphore"

	"keepalive/internal/models"
	"keepalive/internal/ping"
	"keepalive/internal/state"
	"keepalive/internal/store"
)

const resultBufferSize = 256

// Scheduler fires keep-alive pings on each target's cron schedule and
// on manual demand. Both trigger paths go through fire, so a manual
// dispatch behaves exactly like a scheduled one.
type Scheduler struct {
	pinger   *ping.Pinger
	runStore store.RunStore
	targets  []models.Target
	sem      *semaphore.Weighted
	results  chan models.Run
	wg       sync.WaitGroup

	// nextRun is swappable so tests can schedule ticks milliseconds out.
	nextRun func(expr string, from time.Time) time.Time

	mutex   sync.Mutex
	stopped bool
}

func New(pinger *ping.Pinger, runStore store.RunStore, targets []models.Target, maxConcurrent int) *Scheduler {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Scheduler{
		pinger:   pinger,
		runStore: runStore,
		targets:  targets,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		results:  make(chan models.Run, resultBufferSize),
		nextRun:  nextRun,
	}
}

// Run starts one timer loop per target and blocks until ctx is
// cancelled, then waits for in-flight pings to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	go s.processResults(ctx)

	for _, target := range s.targets {
		s.wg.Add(1)
		go func(target models.Target) {
			defer s.wg.Done()
			s.runLoop(ctx, target)
		}(target)
	}

	<-ctx.Done()
	s.mutex.Lock()
	s.stopped = true
	s.mutex.Unlock()
	s.wg.Wait()
	log.Println("scheduler stopped")
	return ctx.Err()
}

// RunOnce pings every target exactly once, records the outcomes and
// returns the raw aggregate status: failed when any ping failed. The
// caller collapses it through state.ReportedOutcome, so a one-shot
// pass always reports success.
func (s *Scheduler) RunOnce(ctx context.Context) state.RunStatus {
	var failed atomic.Bool
	var wg sync.WaitGroup
	for _, target := range s.targets {
		wg.Add(1)
		go func(target models.Target) {
			defer wg.Done()
			if err := s.sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer s.sem.Release(1)

			run := s.pinger.Do(ctx, target)
			if run.Status != state.StatusSucceeded {
				failed.Store(true)
			}
			s.record(ctx, run)
		}(target)
	}
	wg.Wait()

	if failed.Load() {
		return state.StatusFailed
	}
	return state.StatusSucceeded
}

// TriggerNow fires an immediate ping of the named target, or of every
// target when name is empty. Unknown names are the only error.
func (s *Scheduler) TriggerNow(ctx context.Context, name string) error {
	if name == "" {
		for _, target := range s.targets {
			s.fire(ctx, target)
		}
		return nil
	}

	for _, target := range s.targets {
		if target.Name == name {
			s.fire(ctx, target)
			return nil
		}
	}
	return fmt.Errorf("scheduler: unknown target %q", name)
}

func (s *Scheduler) runLoop(ctx context.Context, target models.Target) {
	for {
		next := s.nextRun(target.Schedule, time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.fire(ctx, target)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, target models.Target) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return
	}
	// A manual trigger carries the request's context, which can outlive
	// the run context; once Run has started waiting, no new work may be
	// added to the group.
	if !s.addWorker() {
		s.sem.Release(1)
		return
	}

	go func() {
		defer s.sem.Release(1)
		defer s.wg.Done()

		run := s.pinger.Do(ctx, target)
		run.NextRunAt = s.nextRun(target.Schedule, time.Now())

		select {
		case s.results <- run:
		case <-ctx.Done():
		}
	}()
}

func (s *Scheduler) addWorker() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stopped {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Scheduler) processResults(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-s.results:
			if !state.IsValidTransition(state.StatusPending, res.Status) {
				log.Printf("scheduler: unexpected run status: %s", res.Status)
			}
			s.record(ctx, res)
		}
	}
}

func (s *Scheduler) record(ctx context.Context, run models.Run) {
	if s.runStore == nil {
		return
	}
	if err := s.runStore.Insert(ctx, run); err != nil {
		log.Printf("scheduler: failed to record run %s: %v", run.ID, err)
	}
}

// nextRun computes the next firing time after 'from'. An unparsable
// expression falls back to one hour; config validation rejects those
// up front, so the fallback only matters for targets built in code.
func nextRun(expr string, from time.Time) time.Time {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		log.Printf("scheduler: invalid cron expression '%s': %v", expr, err)
		return from.Add(1 * time.Hour)
	}
	return schedule.Next(from)
}
