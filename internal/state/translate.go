package state

import "fmt"

// Translation tables for the two external vocabularies: the blockchain payment
// service and the remote agent API. Every table is total over its source enum
// and panics on an unknown value. An unmapped value means the external
// protocol drifted; coercing it into a default status would hide that.

// Payment-service wire values for the on-chain purchase state.
const (
	paymentStateNone                = "None"
	paymentStateFundsLocked         = "FundsLocked"
	paymentStateResultSubmitted     = "ResultSubmitted"
	paymentStateWithdrawn           = "Withdrawn"
	paymentStateFundsOrDatumInvalid = "FundsOrDatumInvalid"
	paymentStateRefundRequested     = "RefundRequested"
	paymentStateRefundWithdrawn     = "RefundWithdrawn"
	paymentStateDisputed            = "Disputed"
	paymentStateDisputedWithdrawn   = "DisputedWithdrawn"
)

// OnChainStatusFromPayment maps the payment service's on-chain purchase state
// onto the internal OnChainStatus. "None" (escrow not yet observed) maps to nil.
func OnChainStatusFromPayment(raw string) *OnChainStatus {
	var s OnChainStatus
	switch raw {
	case paymentStateNone:
		return nil
	case paymentStateFundsLocked:
		s = OnChainFundsLocked
	case paymentStateResultSubmitted:
		s = OnChainResultSubmitted
	case paymentStateWithdrawn:
		s = OnChainFundsWithdrawn
	case paymentStateFundsOrDatumInvalid:
		s = OnChainFundsOrDatumInvalid
	case paymentStateRefundRequested:
		s = OnChainRefundRequested
	case paymentStateRefundWithdrawn:
		s = OnChainRefundWithdrawn
	case paymentStateDisputed:
		s = OnChainDisputed
	case paymentStateDisputedWithdrawn:
		s = OnChainDisputedWithdrawn
	default:
		panic(fmt.Sprintf("state: unmapped on-chain purchase state %q", raw))
	}
	return &s
}

// NextActionFromPayment maps the payment service's next requested action onto
// the internal NextAction enum.
func NextActionFromPayment(raw string) NextAction {
	switch raw {
	case "None":
		return NextActionNone
	case "Ignore":
		return NextActionIgnore
	case "WaitingForManualAction":
		return NextActionWaitingForManualAction
	case "WaitingForExternalAction":
		return NextActionWaitingForExternalAction
	case "FundsLockingRequested":
		return NextActionFundsLockingRequested
	case "FundsLockingInitiated":
		return NextActionFundsLockingInitiated
	case "SetRefundRequestedRequested":
		return NextActionSetRefundRequested
	case "SetRefundRequestedInitiated":
		return NextActionSetRefundInitiated
	case "UnSetRefundRequestedRequested":
		return NextActionUnsetRefundRequested
	case "UnSetRefundRequestedInitiated":
		return NextActionUnsetRefundInitiated
	case "WithdrawRefundRequested":
		return NextActionWithdrawRefundRequested
	case "WithdrawRefundInitiated":
		return NextActionWithdrawRefundInitiated
	default:
		panic(fmt.Sprintf("state: unmapped next action %q", raw))
	}
}

// ErrorTypeFromPayment maps the payment service's action error tag onto the
// internal NextActionErrorType. An empty tag (no error) maps to nil.
func ErrorTypeFromPayment(raw string) *NextActionErrorType {
	var t NextActionErrorType
	switch raw {
	case "":
		return nil
	case "NetworkError":
		t = ErrorTypeNetworkError
	case "InsufficientFunds":
		t = ErrorTypeInsufficientFunds
	case "Unknown":
		t = ErrorTypeUnknown
	default:
		panic(fmt.Sprintf("state: unmapped action error type %q", raw))
	}
	return &t
}

// AgentJobStatusFromAgent maps the remote agent's job-status string onto the
// internal AgentJobStatus enum.
func AgentJobStatusFromAgent(raw string) AgentJobStatus {
	switch raw {
	case "pending":
		return AgentJobPending
	case "awaiting_payment":
		return AgentJobAwaitingPayment
	case "awaiting_input":
		return AgentJobAwaitingInput
	case "running":
		return AgentJobRunning
	case "completed":
		return AgentJobCompleted
	case "failed":
		return AgentJobFailed
	default:
		panic(fmt.Sprintf("state: unmapped agent job status %q", raw))
	}
}

// TxStatusFromPayment maps the payment service's transaction confirmation
// state onto the internal TxStatus.
func TxStatusFromPayment(raw string) TxStatus {
	switch raw {
	case "Pending":
		return TxStatusPending
	case "Confirmed":
		return TxStatusCompleted
	case "FailedViaTimeout":
		return TxStatusFailed
	default:
		panic(fmt.Sprintf("state: unmapped transaction status %q", raw))
	}
}
