package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"hireling/internal/models"
)

const uniqueViolation = "23505"

const (
	selectLockQuery = `
	SELECT locked_by, locked_at, is_locked, updated_at
	FROM hireling_schema.locks
	WHERE key = $1
	`

	insertLockQuery = `
	INSERT INTO hireling_schema.locks (key, locked_by, locked_at, is_locked, updated_at)
	VALUES ($1, $2, now(), TRUE, now())
	RETURNING locked_at, updated_at
	`

	claimLockQuery = `
	UPDATE hireling_schema.locks
	SET locked_by = $1, locked_at = now(), is_locked = TRUE, updated_at = now()
	WHERE key = $2 AND updated_at = $3
	RETURNING locked_at, updated_at
	`

	releaseLockQuery = `
	UPDATE hireling_schema.locks
	SET is_locked = FALSE, locked_by = NULL, locked_at = NULL, updated_at = now()
	WHERE key = $1 AND locked_by = $2 AND updated_at = $3
	`
)

// PostgresDistributedLockManager implements DistributedLockManager on a
// shared lock table. Rows are created lazily and never deleted; every
// transition is a single-row compare-and-swap keyed on updated_at.
type PostgresDistributedLockManager struct {
	db      *sql.DB
	owner   string
	timeout time.Duration
	log     zerolog.Logger
}

func NewPostgresDistributedLockManager(db *sql.DB, owner string, timeout time.Duration, log zerolog.Logger) *PostgresDistributedLockManager {
	return &PostgresDistributedLockManager{
		db:      db,
		owner:   owner,
		timeout: timeout,
		log:     log,
	}
}

func (m *PostgresDistributedLockManager) Acquire(ctx context.Context, key string) (*models.Lock, error) {
	var (
		lockedBy  sql.NullString
		lockedAt  sql.NullTime
		isLocked  bool
		updatedAt time.Time
	)
	err := m.db.QueryRowContext(ctx, selectLockQuery, key).
		Scan(&lockedBy, &lockedAt, &isLocked, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return m.insert(ctx, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read lock %q: %w", key, err)
	}

	if isLocked {
		if !lockedAt.Valid || time.Since(lockedAt.Time) < m.timeout {
			return nil, ErrLockHeld
		}
		m.log.Warn().
			Str("lock_key", key).
			Str("previous_owner", lockedBy.String).
			Time("locked_at", lockedAt.Time).
			Str("new_owner", m.owner).
			Msg("taking over stale lock")
	}

	return m.claim(ctx, key, updatedAt)
}

func (m *PostgresDistributedLockManager) Release(ctx context.Context, l *models.Lock) error {
	res, err := m.db.ExecContext(ctx, releaseLockQuery, l.Key, l.LockedBy, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("release lock %q: %w", l.Key, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release lock %q: %w", l.Key, err)
	}
	if affected == 0 {
		// The lock was taken over after our staleness timeout expired; it now
		// belongs to another owner and must be left alone.
		m.log.Warn().
			Str("lock_key", l.Key).
			Str("owner", l.LockedBy).
			Msg("lock changed hands before release, leaving it")
	}
	return nil
}

func (m *PostgresDistributedLockManager) insert(ctx context.Context, key string) (*models.Lock, error) {
	var lockedAt, updatedAt time.Time
	err := m.db.QueryRowContext(ctx, insertLockQuery, key, m.owner).Scan(&lockedAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			// A concurrent instance created the row first and holds the lock.
			return nil, ErrLockHeld
		}
		return nil, fmt.Errorf("create lock %q: %w", key, err)
	}

	return &models.Lock{Key: key, LockedBy: m.owner, LockedAt: lockedAt, UpdatedAt: updatedAt}, nil
}

func (m *PostgresDistributedLockManager) claim(ctx context.Context, key string, lastSeen time.Time) (*models.Lock, error) {
	var lockedAt, updatedAt time.Time
	err := m.db.QueryRowContext(ctx, claimLockQuery, m.owner, key, lastSeen).Scan(&lockedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// The row moved under us between read and claim: a concurrent
		// instance won the race.
		return nil, ErrLockHeld
	}
	if err != nil {
		return nil, fmt.Errorf("claim lock %q: %w", key, err)
	}

	return &models.Lock{Key: key, LockedBy: m.owner, LockedAt: lockedAt, UpdatedAt: updatedAt}, nil
}
