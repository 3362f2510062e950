package lock

import (
	"context"
	"errors"

	"hireling/internal/models"
)

// ErrLockHeld reports that another instance currently owns the lock. Under
// concurrent instances this is expected, not a failure.
var ErrLockHeld = errors.New("lock is held by another instance")

// DistributedLockManager serializes work on a named resource across service
// instances through a shared store.
type DistributedLockManager interface {
	// Acquire takes the named lock for this instance. It fails with
	// ErrLockHeld when another live owner holds it; a lock held past the
	// staleness timeout is forcibly taken over instead.
	Acquire(ctx context.Context, key string) (*models.Lock, error)

	// Release returns the lock, conditioned on the row being unchanged since
	// acquisition. A lock stolen in the meantime is logged, not an error.
	Release(ctx context.Context, l *models.Lock) error
}
