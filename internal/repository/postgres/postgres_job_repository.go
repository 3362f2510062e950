package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hireling/internal/models"
	"hireling/internal/state"
)

type PostgresJobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) CreateJob(ctx context.Context, tmpl models.JobTemplate) (string, error) {
	query := `
	INSERT INTO hireling_schema.jobs
		(id, agent_id, schedule_id, agent_job_status, next_action, input_data,
		 created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	RETURNING id
	`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), tmpl.AgentID, tmpl.ScheduleID,
		state.AgentJobAwaitingPayment, state.NextActionFundsLockingRequested,
		tmpl.InputData,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert job: %w", err)
	}
	return id, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `
	SELECT id, agent_id, schedule_id, on_chain_status, agent_job_status,
	       next_action, next_action_error_type, identifier_from_purchaser,
	       input_data, input_hash, result, result_hash, created_at, updated_at
	FROM hireling_schema.jobs
	WHERE id = $1
	`

	var (
		j       models.Job
		onChain sql.NullString
		errType sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.AgentID, &j.ScheduleID, &onChain, &j.AgentJobStatus,
		&j.NextAction, &errType, &j.IdentifierFromPurchaser,
		&j.InputData, &j.InputHash, &j.Result, &j.ResultHash,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select job: %w", err)
	}

	if onChain.Valid {
		s := state.OnChainStatus(onChain.String)
		j.OnChainStatus = &s
	}
	if errType.Valid {
		e := state.NextActionErrorType(errType.String)
		j.NextActionErrorType = &e
	}
	return &j, nil
}
