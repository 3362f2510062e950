package models

import (
	"encoding/json"
	"time"
)

type ScheduleType string

const (
	ScheduleTypeOneTime ScheduleType = "ONE_TIME"
	ScheduleTypeCron    ScheduleType = "CRON"
)

// Pause reasons recorded when a schedule is deactivated for an invalid
// configuration. Transient failures record the raw error text instead.
const (
	PauseReasonInvalidCronConfig = "INVALID_CRON_CONFIG"
	PauseReasonInvalidCron       = "INVALID_CRON"
)

// Schedule is a stored job template plus its recurrence settings. A schedule
// with IsActive=false or NextRunAt=nil is terminal and is never selected as
// due again.
type Schedule struct {
	ID                  string
	Type                ScheduleType
	CronExpression      *string
	Timezone            string
	NextRunAt           *time.Time
	IsActive            bool
	PauseReason         *string
	EndOnUTC            *time.Time
	EndAfterOccurrences *int

	// Serialized job template, opaque to the scheduler.
	AgentID       string
	InputSchema   json.RawMessage
	InputData     json.RawMessage
	MaxCreditCost int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Template extracts the job-creation template stored on the schedule.
func (s *Schedule) Template() JobTemplate {
	return JobTemplate{
		ScheduleID:    s.ID,
		AgentID:       s.AgentID,
		InputSchema:   s.InputSchema,
		InputData:     s.InputData,
		MaxCreditCost: s.MaxCreditCost,
	}
}

// JobTemplate is what the job-creation collaborator receives when a due
// schedule triggers.
type JobTemplate struct {
	ScheduleID    string
	AgentID       string
	InputSchema   json.RawMessage
	InputData     json.RawMessage
	MaxCreditCost int64
}
