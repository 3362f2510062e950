package mocks

import (
	"context"
	"sync"
	"time"

	"hireling/internal/lock"
	"hireling/internal/models"
)

type MockDistributedLockManager struct {
	mu       sync.Mutex
	held     map[string]string
	Acquired []string
	Released []string
}

func NewMockDistributedLockManager() *MockDistributedLockManager {
	return &MockDistributedLockManager{held: make(map[string]string)}
}

// Hold marks a key as owned by another instance so acquisition fails.
func (m *MockDistributedLockManager) Hold(key, owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[key] = owner
}

func (m *MockDistributedLockManager) Acquire(ctx context.Context, key string) (*models.Lock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.held[key]; taken {
		return nil, lock.ErrLockHeld
	}
	m.held[key] = "test-instance"
	m.Acquired = append(m.Acquired, key)

	now := time.Now()
	return &models.Lock{Key: key, LockedBy: "test-instance", LockedAt: now, UpdatedAt: now}, nil
}

func (m *MockDistributedLockManager) Release(ctx context.Context, l *models.Lock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.held, l.Key)
	m.Released = append(m.Released, l.Key)
	return nil
}
