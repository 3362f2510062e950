package repository

import (
	"context"

	"hireling/internal/models"
)

// JobRepository defines the interface for managing agent jobs in the DB.
type JobRepository interface {
	// CreateJob stores a new job built from a schedule's template and returns
	// its ID. The job starts awaiting payment with no on-chain observation.
	CreateJob(ctx context.Context, tmpl models.JobTemplate) (string, error)

	// GetByID returns the job, or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*models.Job, error)
}
