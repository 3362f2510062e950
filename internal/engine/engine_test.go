package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireling/internal/engine/mocks"
	"hireling/internal/models"
)

type fixture struct {
	repo    *mocks.MockScheduleRepository
	locks   *mocks.MockDistributedLockManager
	creator *mocks.MockJobCreator
	engine  *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    mocks.NewMockScheduleRepository(),
		locks:   mocks.NewMockDistributedLockManager(),
		creator: mocks.NewMockJobCreator(),
	}
	f.engine = New(f.repo, f.locks, f.creator, 3, time.Minute, zerolog.Nop())

	// Mirror the real job-creation collaborator, which persists a job row
	// counted by CountJobsForSchedule.
	f.creator.CreateFunc = func(ctx context.Context, tmpl models.JobTemplate) (string, error) {
		f.repo.IncJobCount(tmpl.ScheduleID)
		return "job-" + tmpl.ScheduleID, nil
	}
	return f
}

func (f *fixture) addSchedule(t *testing.T, s models.Schedule) string {
	t.Helper()
	id, err := f.repo.Create(context.Background(), &s)
	require.NoError(t, err)
	return id
}

func (f *fixture) schedule(t *testing.T, id string) *models.Schedule {
	t.Helper()
	s, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func dueCron(expr string) models.Schedule {
	due := time.Now().Add(-time.Minute)
	return models.Schedule{
		Type:           models.ScheduleTypeCron,
		CronExpression: strPtr(expr),
		Timezone:       "UTC",
		NextRunAt:      &due,
		IsActive:       true,
		AgentID:        "agent-1",
		InputData:      []byte(`{"prompt":"hello"}`),
		MaxCreditCost:  100,
	}
}

func dueOneTime() models.Schedule {
	due := time.Now().Add(-time.Minute)
	return models.Schedule{
		Type:          models.ScheduleTypeOneTime,
		Timezone:      "UTC",
		NextRunAt:     &due,
		IsActive:      true,
		AgentID:       "agent-1",
		MaxCreditCost: 100,
	}
}

func TestExecuteDueSchedules_CronEndAfterOccurrencesReached(t *testing.T) {
	f := newFixture(t)
	s := dueCron("*/5 * * * *")
	s.EndAfterOccurrences = intPtr(1)
	id := f.addSchedule(t, s)

	result, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.DueFound)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Paused)
	assert.Len(t, f.creator.Created, 1)

	got := f.schedule(t, id)
	assert.Nil(t, got.NextRunAt, "schedule must be terminal")
	assert.True(t, got.IsActive, "end condition is not a pause")
	assert.Nil(t, got.PauseReason)
}

func TestExecuteDueSchedules_CronAdvances(t *testing.T) {
	f := newFixture(t)
	id := f.addSchedule(t, dueCron("*/5 * * * *"))

	_, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err)

	got := f.schedule(t, id)
	require.NotNil(t, got.NextRunAt)
	assert.True(t, got.NextRunAt.After(time.Now()))
	assert.True(t, got.IsActive)
}

func TestExecuteDueSchedules_CronPastEndOnUTC(t *testing.T) {
	f := newFixture(t)
	s := dueCron("0 0 1 1 *") // far-away next run
	end := time.Now().Add(time.Hour)
	s.EndOnUTC = &end
	id := f.addSchedule(t, s)

	_, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err)

	got := f.schedule(t, id)
	assert.Nil(t, got.NextRunAt)
	assert.True(t, got.IsActive)
	assert.Len(t, f.creator.Created, 1, "the due occurrence itself still runs")
}

func TestExecuteDueSchedules_OneTime(t *testing.T) {
	f := newFixture(t)
	id := f.addSchedule(t, dueOneTime())

	result, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Len(t, f.creator.Created, 1)

	got := f.schedule(t, id)
	assert.Nil(t, got.NextRunAt)
	assert.True(t, got.IsActive)
}

func TestExecuteDueSchedules_CreatorFailurePausesSchedule(t *testing.T) {
	f := newFixture(t)
	f.creator.CreateFunc = func(ctx context.Context, tmpl models.JobTemplate) (string, error) {
		return "", errors.New("agent unreachable")
	}
	id := f.addSchedule(t, dueOneTime())

	result, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err, "one schedule's failure must not fail the sweep")

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Paused)

	got := f.schedule(t, id)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.PauseReason)
	assert.Contains(t, *got.PauseReason, "agent unreachable")
}

func TestExecuteDueSchedules_HeldLockIsSkippedSilently(t *testing.T) {
	f := newFixture(t)
	id := f.addSchedule(t, dueOneTime())
	f.locks.Hold(lockKeyPrefix+id, "other-instance")

	result, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.DueFound)
	assert.Equal(t, 0, result.Processed, "a held lock is not processed")
	assert.Equal(t, 0, result.Paused)
	assert.Empty(t, f.creator.Created)

	got := f.schedule(t, id)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.NextRunAt, "the other instance owns the advance")
}

func TestExecuteDueSchedules_MissingCronConfig(t *testing.T) {
	f := newFixture(t)
	s := dueCron("*/5 * * * *")
	s.CronExpression = nil
	id := f.addSchedule(t, s)

	result, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Paused)
	assert.Empty(t, f.creator.Created, "no job for an invalid configuration")

	got := f.schedule(t, id)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.PauseReason)
	assert.Equal(t, models.PauseReasonInvalidCronConfig, *got.PauseReason)
}

func TestExecuteDueSchedules_InvalidCronExpression(t *testing.T) {
	f := newFixture(t)
	id := f.addSchedule(t, dueCron("every tuesday"))

	_, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err)

	got := f.schedule(t, id)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.PauseReason)
	assert.Equal(t, models.PauseReasonInvalidCron, *got.PauseReason)
	assert.Len(t, f.creator.Created, 1, "validity only surfaces when the next run is computed")
}

func TestExecuteDueSchedules_LocksAlwaysReleased(t *testing.T) {
	f := newFixture(t)
	f.addSchedule(t, dueOneTime())
	failID := f.addSchedule(t, dueOneTime())
	f.creator.CreateFunc = func(ctx context.Context, tmpl models.JobTemplate) (string, error) {
		if tmpl.ScheduleID == failID {
			return "", errors.New("boom")
		}
		return "job-ok", nil
	}

	_, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, f.locks.Acquired, f.locks.Released)
	assert.Len(t, f.locks.Released, 2)
}

func TestExecuteDueSchedules_EmptySweep(t *testing.T) {
	f := newFixture(t)

	result, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SweepResult{Duration: result.Duration}, result)
}

func TestExecuteDueSchedules_FailureIsolation(t *testing.T) {
	f := newFixture(t)

	bad := dueCron("*/5 * * * *")
	bad.Timezone = ""
	badID := f.addSchedule(t, bad)
	goodID := f.addSchedule(t, dueOneTime())

	result, err := f.engine.ExecuteDueSchedules(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.DueFound)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Paused)

	assert.False(t, f.schedule(t, badID).IsActive)
	good := f.schedule(t, goodID)
	assert.True(t, good.IsActive)
	assert.Nil(t, good.NextRunAt)
}
