package state

import "fmt"

// ComputeStatus folds the three upstream status fields into the canonical
// JobStatus. It is re-evaluated whenever any upstream field changes and keeps
// no memory of prior calls.
//
// With no on-chain observation yet, only the next-action error distinguishes
// "payment still pending" from "failed before lock-in".
func ComputeStatus(onChain *OnChainStatus, agent AgentJobStatus, nextActionErr *NextActionErrorType) JobStatus {
	if onChain == nil {
		if nextActionErr == nil {
			return JobStatusPaymentPending
		}
		return JobStatusPaymentFailed
	}

	switch *onChain {
	case OnChainFundsLocked:
		switch agent {
		case AgentJobAwaitingInput:
			return JobStatusInputRequired
		case AgentJobCompleted:
			return JobStatusCompleted
		default:
			return JobStatusProcessing
		}
	case OnChainResultSubmitted:
		if agent == AgentJobCompleted {
			return JobStatusCompleted
		}
		return JobStatusOutputPending
	case OnChainFundsWithdrawn:
		if agent == AgentJobCompleted {
			return JobStatusCompleted
		}
		return JobStatusFailed
	case OnChainFundsOrDatumInvalid:
		return JobStatusPaymentFailed
	case OnChainRefundRequested:
		return JobStatusRefundPending
	case OnChainRefundWithdrawn:
		return JobStatusRefundResolved
	case OnChainDisputed:
		return JobStatusDisputePending
	case OnChainDisputedWithdrawn:
		return JobStatusDisputeResolved
	default:
		panic(fmt.Sprintf("state: unmapped on-chain status %q", *onChain))
	}
}
