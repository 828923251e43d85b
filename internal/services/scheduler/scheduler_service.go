// Package scheduler adapts the teacher's robfig/cron-backed job runner into
// a single periodic re-check job: given a cron expression and a run
// function (a full pipeline pass over the configured inputs), it repeats
// that pass on schedule, serializing runs with a mutex so overlapping
// triggers skip rather than stack up, and surfaces last-run / last-error
// status for the CLI to report.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/linkcheck/internal/common"
)

// Status reports the last execution of the scheduled re-check job.
type Status struct {
	Schedule  string
	Running   bool
	LastRun   *time.Time
	LastError string
	RunCount  int
}

// Service runs one function (a full link-check pass) on a cron schedule.
type Service struct {
	cron   *cron.Cron
	logger arbor.ILogger
	runFn  func() error

	mu       sync.Mutex
	schedule string
	entryID  cron.EntryID
	running  bool
	lastRun  *time.Time
	lastErr  string
	runCount int

	globalMu sync.Mutex // serializes overlapping triggers
}

// New builds a scheduler around runFn, the function invoked on every tick.
func New(logger arbor.ILogger, runFn func() error) *Service {
	return &Service{
		cron:   cron.New(),
		logger: logger,
		runFn:  runFn,
	}
}

// Start validates schedule and registers the recurring job, then starts the
// underlying cron scheduler. schedule must be a standard 5-field cron
// expression, validated via common.ValidateJobSchedule.
func (s *Service) Start(schedule string) error {
	if err := common.ValidateJobSchedule(schedule); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	entryID, err := s.cron.AddFunc(schedule, s.execute)
	if err != nil {
		return fmt.Errorf("failed to register cron job: %w", err)
	}

	s.mu.Lock()
	s.schedule = schedule
	s.entryID = entryID
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("Re-check scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for any in-flight run to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Re-check scheduler stopped")
}

// TriggerNow runs the pipeline immediately, outside the cron schedule.
func (s *Service) TriggerNow() {
	go s.execute()
}

// Status returns a point-in-time snapshot of the last run.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Schedule:  s.schedule,
		Running:   s.running,
		LastRun:   s.lastRun,
		LastError: s.lastErr,
		RunCount:  s.runCount,
	}
}

// execute runs runFn with panic recovery and overlap prevention: if a run
// is already in flight when the cron tick fires, this tick is skipped.
func (s *Service) execute() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", common.GetStackTrace()).
				Msg("Recovered from panic in scheduled re-check run")
			s.mu.Lock()
			s.running = false
			s.lastErr = fmt.Sprintf("panic: %v", r)
			s.mu.Unlock()
		}
	}()

	if !s.globalMu.TryLock() {
		s.logger.Debug().Msg("Previous re-check run still in progress, skipping this tick")
		return
	}
	defer s.globalMu.Unlock()

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	start := time.Now()
	err := s.runFn()
	finished := time.Now()

	s.mu.Lock()
	s.running = false
	s.lastRun = &finished
	s.runCount++
	if err != nil {
		s.lastErr = err.Error()
	} else {
		s.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Dur("duration", finished.Sub(start)).Msg("Scheduled re-check run failed")
	} else {
		s.logger.Info().Dur("duration", finished.Sub(start)).Msg("Scheduled re-check run completed")
	}
}
