package models

import (
	"encoding/json"
	"time"

	"hireling/internal/integrity"
	"hireling/internal/state"
)

// Job is the local record for an agent hire. The agent-polling and
// blockchain-polling collaborators mutate the upstream status fields; the
// canonical status is always derived from them, never stored.
type Job struct {
	ID         string
	AgentID    string
	ScheduleID *string

	OnChainStatus       *state.OnChainStatus
	AgentJobStatus      state.AgentJobStatus
	NextAction          state.NextAction
	NextActionErrorType *state.NextActionErrorType

	IdentifierFromPurchaser string
	InputData               json.RawMessage
	InputHash               *string
	Result                  *string
	ResultHash              *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status folds the three upstream status fields into the canonical JobStatus.
func (j *Job) Status() state.JobStatus {
	return state.ComputeStatus(j.OnChainStatus, j.AgentJobStatus, j.NextActionErrorType)
}

// VerifyInputHash checks the purchaser's input commitment against the stored
// input payload. Missing hash or payload verifies as false.
func (j *Job) VerifyInputHash() bool {
	if j.InputHash == nil {
		return false
	}
	return integrity.VerifyInput(j.IdentifierFromPurchaser, j.InputData, *j.InputHash)
}

// VerifyResultHash checks the on-chain result commitment against the agent's
// submitted result.
func (j *Job) VerifyResultHash() bool {
	if j.ResultHash == nil || j.Result == nil {
		return false
	}
	return integrity.VerifyResult(j.IdentifierFromPurchaser, *j.Result, *j.ResultHash)
}
