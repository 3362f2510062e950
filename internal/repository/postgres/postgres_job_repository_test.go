package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireling/internal/models"
	"hireling/internal/state"
)

func TestCreateJob(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	tmpl := models.JobTemplate{
		ScheduleID:    "sched-1",
		AgentID:       "agent-1",
		InputData:     []byte(`{"prompt":"hello"}`),
		MaxCreditCost: 500,
	}

	mock.ExpectQuery("INSERT INTO hireling_schema.jobs").
		WithArgs(sqlmock.AnyArg(), "agent-1", "sched-1",
			string(state.AgentJobAwaitingPayment), string(state.NextActionFundsLockingRequested),
			[]byte(`{"prompt":"hello"}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("job-1"))

	repo := NewJobRepository(db)
	id, err := repo.CreateJob(context.Background(), tmpl)
	require.NoError(t, err)
	assert.Equal(t, "job-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobGetByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	scheduleID := "sched-1"
	rows := sqlmock.NewRows([]string{
		"id", "agent_id", "schedule_id", "on_chain_status", "agent_job_status",
		"next_action", "next_action_error_type", "identifier_from_purchaser",
		"input_data", "input_hash", "result", "result_hash", "created_at", "updated_at",
	}).AddRow(
		"job-1", "agent-1", scheduleID, string(state.OnChainFundsLocked), string(state.AgentJobRunning),
		string(state.NextActionNone), nil, "purchaser-7",
		[]byte(`{"prompt":"hello"}`), nil, nil, nil, now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM hireling_schema.jobs").
		WithArgs("job-1").
		WillReturnRows(rows)

	repo := NewJobRepository(db)
	job, err := repo.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	require.NotNil(t, job)

	assert.Equal(t, "job-1", job.ID)
	require.NotNil(t, job.OnChainStatus)
	assert.Equal(t, state.OnChainFundsLocked, *job.OnChainStatus)
	assert.Nil(t, job.NextActionErrorType)
	assert.Equal(t, state.JobStatusProcessing, job.Status())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM hireling_schema.jobs").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewJobRepository(db)
	job, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, job)
}
