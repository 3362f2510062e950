package models

import "time"

// SweepResult summarizes one due-schedule sweep. Processed counts every
// schedule a lock was obtained for, success or failure; Paused counts those
// left deactivated.
type SweepResult struct {
	DueFound  int
	Processed int
	Paused    int
	Duration  time.Duration
}
