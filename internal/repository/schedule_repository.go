package repository

import (
	"context"
	"time"

	"hireling/internal/models"
)

// ScheduleRepository defines the interface for managing job schedules in the DB.
type ScheduleRepository interface {
	// Create stores a new schedule and returns its ID.
	Create(ctx context.Context, s *models.Schedule) (string, error)

	// FindDueSchedules returns all active schedules with NextRunAt <= now.
	FindDueSchedules(ctx context.Context, now time.Time) ([]models.Schedule, error)

	// GetByID returns the schedule, or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*models.Schedule, error)

	// SetActive toggles a schedule. Deactivation records the pause reason;
	// reactivation clears it.
	SetActive(ctx context.Context, id string, active bool, pauseReason *string) error

	// SetNextRun persists the next trigger instant. nil marks the schedule as
	// never running again.
	SetNextRun(ctx context.Context, id string, nextRunAt *time.Time) error

	// CountJobsForSchedule returns how many jobs this schedule has created,
	// used for the end-after-occurrences condition.
	CountJobsForSchedule(ctx context.Context, id string) (int, error)
}
