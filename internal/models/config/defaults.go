package config

import "time"

const (
	DefaultWorkerCount   = 3
	DefaultSweepInterval = time.Minute
	DefaultSweepTimeout  = 8 * time.Minute
	DefaultLockTimeout   = 10 * time.Minute
	DefaultLogLevel      = "info"
)
