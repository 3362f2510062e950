package mocks

import (
	"context"
	"fmt"
	"sync"

	"hireling/internal/models"
)

type MockJobCreator struct {
	mu      sync.Mutex
	nextID  int
	Created []models.JobTemplate

	// CreateFunc, when set, replaces the default behavior.
	CreateFunc func(ctx context.Context, tmpl models.JobTemplate) (string, error)
}

func NewMockJobCreator() *MockJobCreator {
	return &MockJobCreator{}
}

func (m *MockJobCreator) CreateJob(ctx context.Context, tmpl models.JobTemplate) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateFunc != nil {
		id, err := m.CreateFunc(ctx, tmpl)
		if err != nil {
			return "", err
		}
		m.Created = append(m.Created, tmpl)
		return id, nil
	}

	m.nextID++
	m.Created = append(m.Created, tmpl)
	return fmt.Sprintf("job-%d", m.nextID), nil
}
