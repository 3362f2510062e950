package models

import "time"

// Lock mirrors one row of the shared lock table. Rows are created lazily on
// first acquisition and never deleted, only toggled.
type Lock struct {
	Key      string
	LockedBy string
	LockedAt time.Time

	// UpdatedAt is the row's last-modified marker at acquisition time; release
	// uses it as the optimistic-concurrency guard.
	UpdatedAt time.Time
}
