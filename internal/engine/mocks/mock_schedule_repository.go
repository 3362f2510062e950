package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hireling/internal/models"
)

type MockScheduleRepository struct {
	mu        sync.Mutex
	schedules map[string]*models.Schedule
	jobCounts map[string]int
	nextID    int
}

func NewMockScheduleRepository() *MockScheduleRepository {
	return &MockScheduleRepository{
		schedules: make(map[string]*models.Schedule),
		jobCounts: make(map[string]int),
	}
}

func (m *MockScheduleRepository) Create(ctx context.Context, s *models.Schedule) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == "" {
		m.nextID++
		s.ID = fmt.Sprintf("sched-%d", m.nextID)
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.schedules[s.ID] = &cp
	return s.ID, nil
}

func (m *MockScheduleRepository) FindDueSchedules(ctx context.Context, now time.Time) ([]models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []models.Schedule
	for _, s := range m.schedules {
		if s.IsActive && s.NextRunAt != nil && !s.NextRunAt.After(now) {
			due = append(due, *s)
		}
	}
	return due, nil
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.schedules[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MockScheduleRepository) SetActive(ctx context.Context, id string, active bool, pauseReason *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.schedules[id]
	if !ok {
		return fmt.Errorf("schedule not found: %s", id)
	}
	s.IsActive = active
	if active {
		s.PauseReason = nil
	} else {
		s.PauseReason = pauseReason
	}
	return nil
}

func (m *MockScheduleRepository) SetNextRun(ctx context.Context, id string, nextRunAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.schedules[id]
	if !ok {
		return fmt.Errorf("schedule not found: %s", id)
	}
	s.NextRunAt = nextRunAt
	return nil
}

func (m *MockScheduleRepository) CountJobsForSchedule(ctx context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobCounts[id], nil
}

// IncJobCount simulates a job row landing for the schedule, as the real
// job-creation collaborator would cause.
func (m *MockScheduleRepository) IncJobCount(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobCounts[id]++
}
