package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hireling/internal/models"
)

const scheduleColumns = `
	id, schedule_type, cron_expression, timezone, next_run_at,
	is_active, pause_reason, end_on_utc, end_after_occurrences,
	agent_id, input_schema, input_data, max_credit_cost,
	created_at, updated_at
`

type PostgresScheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

func (r *PostgresScheduleRepository) Create(ctx context.Context, s *models.Schedule) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	query := `
	INSERT INTO hireling_schema.schedules
		(id, schedule_type, cron_expression, timezone, next_run_at,
		 is_active, pause_reason, end_on_utc, end_after_occurrences,
		 agent_id, input_schema, input_data, max_credit_cost,
		 created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NULL, $7, $8, $9, $10, $11, $12, now(), now())
	RETURNING id
	`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.Type, s.CronExpression, s.Timezone, s.NextRunAt,
		s.IsActive, s.EndOnUTC, s.EndAfterOccurrences,
		s.AgentID, s.InputSchema, s.InputData, s.MaxCreditCost,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert schedule: %w", err)
	}
	return id, nil
}

func (r *PostgresScheduleRepository) FindDueSchedules(ctx context.Context, now time.Time) ([]models.Schedule, error) {
	query := `
	SELECT ` + scheduleColumns + `
	FROM hireling_schema.schedules
	WHERE is_active = TRUE AND next_run_at IS NOT NULL AND next_run_at <= $1
	ORDER BY next_run_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("query due schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

func (r *PostgresScheduleRepository) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	query := `
	SELECT ` + scheduleColumns + `
	FROM hireling_schema.schedules
	WHERE id = $1
	`

	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %q: %w", id, err)
	}
	return s, nil
}

func (r *PostgresScheduleRepository) SetActive(ctx context.Context, id string, active bool, pauseReason *string) error {
	if active {
		pauseReason = nil
	}
	query := `
	UPDATE hireling_schema.schedules
	SET is_active = $1, pause_reason = $2, updated_at = now()
	WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, active, pauseReason, id)
	if err != nil {
		return fmt.Errorf("set schedule %q active=%t: %w", id, active, err)
	}
	return nil
}

func (r *PostgresScheduleRepository) SetNextRun(ctx context.Context, id string, nextRunAt *time.Time) error {
	query := `
	UPDATE hireling_schema.schedules
	SET next_run_at = $1, updated_at = now()
	WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, nextRunAt, id)
	if err != nil {
		return fmt.Errorf("set schedule %q next run: %w", id, err)
	}
	return nil
}

func (r *PostgresScheduleRepository) CountJobsForSchedule(ctx context.Context, id string) (int, error) {
	query := `SELECT COUNT(*) FROM hireling_schema.jobs WHERE schedule_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count jobs for schedule %q: %w", id, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	var s models.Schedule
	err := row.Scan(
		&s.ID, &s.Type, &s.CronExpression, &s.Timezone, &s.NextRunAt,
		&s.IsActive, &s.PauseReason, &s.EndOnUTC, &s.EndAfterOccurrences,
		&s.AgentID, &s.InputSchema, &s.InputData, &s.MaxCreditCost,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
