// Package engine drives due schedules: it finds them, serializes each one
// behind a distributed lock, triggers job creation, and advances or pauses
// the schedule.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"hireling/internal/cronexpr"
	"hireling/internal/lock"
	"hireling/internal/models"
	"hireling/internal/repository"
)

// lockKeyPrefix namespaces per-schedule locks in the shared lock table.
const lockKeyPrefix = "job-schedule-"

const (
	DefaultWorkerCount  = 3
	DefaultSweepTimeout = 8 * time.Minute
)

// JobCreator is the external job-creation collaborator. It is opaque beyond
// success or failure; on success it returns the created job's id.
type JobCreator interface {
	CreateJob(ctx context.Context, tmpl models.JobTemplate) (string, error)
}

type Engine struct {
	schedules repository.ScheduleRepository
	locks     lock.DistributedLockManager
	jobs      JobCreator
	log       zerolog.Logger

	workerCount  int64
	sweepTimeout time.Duration
}

func New(schedules repository.ScheduleRepository, locks lock.DistributedLockManager, jobs JobCreator, workerCount int, sweepTimeout time.Duration, log zerolog.Logger) *Engine {
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	if sweepTimeout <= 0 {
		sweepTimeout = DefaultSweepTimeout
	}
	return &Engine{
		schedules:    schedules,
		locks:        locks,
		jobs:         jobs,
		log:          log,
		workerCount:  int64(workerCount),
		sweepTimeout: sweepTimeout,
	}
}

// Start runs due-schedule sweeps on a fixed interval until the context is
// cancelled. Multiple instances may run this concurrently; the per-schedule
// locks keep them from double-triggering the same occurrence.
func (e *Engine) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.log.Info().Dur("interval", interval).Msg("schedule engine started")
	for {
		select {
		case <-ctx.Done():
			e.log.Info().Msg("schedule engine stopped")
			return
		case <-ticker.C:
			if _, err := e.ExecuteDueSchedules(ctx); err != nil {
				e.log.Error().Err(err).Msg("due-schedule sweep failed")
			}
		}
	}
}

// ExecuteDueSchedules runs one sweep over every active schedule whose
// NextRunAt has arrived. Schedules are independent: one schedule's failure
// pauses that schedule and never aborts the batch. The whole sweep runs under
// a timeout shorter than the lock staleness timeout, so locks from an
// overlong sweep become stealable only after it has given up.
func (e *Engine) ExecuteDueSchedules(ctx context.Context) (models.SweepResult, error) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.sweepTimeout)
	defer cancel()

	now := time.Now()
	due, err := e.schedules.FindDueSchedules(ctx, now)
	if err != nil {
		return models.SweepResult{Duration: time.Since(started)}, fmt.Errorf("find due schedules: %w", err)
	}

	result := models.SweepResult{DueFound: len(due)}
	sem := semaphore.NewWeighted(e.workerCount)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, schedule := range due {
		if err := sem.Acquire(ctx, 1); err != nil {
			e.log.Warn().Err(err).Msg("sweep ended before all due schedules were attempted")
			break
		}
		wg.Add(1)

		go func(s models.Schedule) {
			defer sem.Release(1)
			defer wg.Done()

			o := e.processSchedule(ctx, s, now)
			mu.Lock()
			if o.locked {
				result.Processed++
			}
			if o.paused {
				result.Paused++
			}
			mu.Unlock()
		}(schedule)
	}

	wg.Wait()
	result.Duration = time.Since(started)

	e.log.Info().
		Int("due_found", result.DueFound).
		Int("processed", result.Processed).
		Int("paused", result.Paused).
		Dur("duration", result.Duration).
		Msg("due-schedule sweep finished")
	return result, nil
}

type outcome struct {
	locked bool
	paused bool
}

func (e *Engine) processSchedule(ctx context.Context, s models.Schedule, now time.Time) outcome {
	l, err := e.locks.Acquire(ctx, lockKeyPrefix+s.ID)
	if errors.Is(err, lock.ErrLockHeld) {
		// Another instance is already handling this schedule.
		return outcome{}
	}
	if err != nil {
		e.log.Error().Err(err).Str("schedule_id", s.ID).Msg("lock acquire failed")
		return outcome{}
	}
	defer func() {
		// Release must survive the sweep deadline: a lock left behind would
		// only free up via stale takeover.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := e.locks.Release(releaseCtx, l); err != nil {
			e.log.Error().Err(err).Str("schedule_id", s.ID).Msg("lock release failed")
		}
	}()

	if err := e.runSchedule(ctx, s, now); err != nil {
		e.pause(ctx, s, err)
		return outcome{locked: true, paused: true}
	}
	return outcome{locked: true}
}

// runSchedule triggers one due occurrence. Any returned error deactivates the
// schedule with the error text as its pause reason.
func (e *Engine) runSchedule(ctx context.Context, s models.Schedule, now time.Time) error {
	if s.Type == models.ScheduleTypeCron &&
		(s.CronExpression == nil || *s.CronExpression == "" || s.Timezone == "") {
		return errors.New(models.PauseReasonInvalidCronConfig)
	}

	jobID, err := e.jobs.CreateJob(ctx, s.Template())
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	e.log.Info().
		Str("schedule_id", s.ID).
		Str("job_id", jobID).
		Str("agent_id", s.AgentID).
		Msg("job created for due schedule")

	return e.advance(ctx, s, now)
}

// advance computes and persists the schedule's next trigger, or marks it
// terminal. A terminal schedule keeps IsActive=true; NextRunAt=nil alone
// stops it from ever being selected as due again.
func (e *Engine) advance(ctx context.Context, s models.Schedule, now time.Time) error {
	if s.Type == models.ScheduleTypeOneTime {
		return e.schedules.SetNextRun(ctx, s.ID, nil)
	}

	next, err := cronexpr.NextRun(*s.CronExpression, s.Timezone, now)
	if err != nil {
		return errors.New(models.PauseReasonInvalidCron)
	}

	if s.EndAfterOccurrences != nil {
		count, err := e.schedules.CountJobsForSchedule(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("count jobs for schedule: %w", err)
		}
		if count >= *s.EndAfterOccurrences {
			return e.schedules.SetNextRun(ctx, s.ID, nil)
		}
	}
	if s.EndOnUTC != nil && next.After(*s.EndOnUTC) {
		return e.schedules.SetNextRun(ctx, s.ID, nil)
	}

	return e.schedules.SetNextRun(ctx, s.ID, &next)
}

func (e *Engine) pause(ctx context.Context, s models.Schedule, cause error) {
	reason := cause.Error()
	e.log.Warn().
		Str("schedule_id", s.ID).
		Str("pause_reason", reason).
		Msg("deactivating schedule")

	if err := e.schedules.SetActive(ctx, s.ID, false, &reason); err != nil {
		e.log.Error().Err(err).Str("schedule_id", s.ID).Msg("failed to deactivate schedule")
	}
}
