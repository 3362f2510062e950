package state

// JobStatus is the canonical status shown for a job. It is always derived
// from the three upstream vocabularies (on-chain state, agent state, next-action
// error) and never stored independently.
type JobStatus string

const (
	JobStatusPaymentPending  JobStatus = "PAYMENT_PENDING"
	JobStatusPaymentFailed   JobStatus = "PAYMENT_FAILED"
	JobStatusProcessing      JobStatus = "PROCESSING"
	JobStatusInputRequired   JobStatus = "INPUT_REQUIRED"
	JobStatusOutputPending   JobStatus = "OUTPUT_PENDING"
	JobStatusCompleted       JobStatus = "COMPLETED"
	JobStatusFailed          JobStatus = "FAILED"
	JobStatusRefundPending   JobStatus = "REFUND_PENDING"
	JobStatusRefundResolved  JobStatus = "REFUND_RESOLVED"
	JobStatusDisputePending  JobStatus = "DISPUTE_PENDING"
	JobStatusDisputeResolved JobStatus = "DISPUTE_RESOLVED"
)

func (s JobStatus) String() string {
	return string(s)
}

// OnChainStatus is the escrow contract state as confirmed on-chain.
// A nil *OnChainStatus means the escrow transaction has not been observed yet.
type OnChainStatus string

const (
	OnChainFundsLocked         OnChainStatus = "FUNDS_LOCKED"
	OnChainResultSubmitted     OnChainStatus = "RESULT_SUBMITTED"
	OnChainFundsWithdrawn      OnChainStatus = "FUNDS_WITHDRAWN"
	OnChainFundsOrDatumInvalid OnChainStatus = "FUNDS_OR_DATUM_INVALID"
	OnChainRefundRequested     OnChainStatus = "REFUND_REQUESTED"
	OnChainRefundWithdrawn     OnChainStatus = "REFUND_WITHDRAWN"
	OnChainDisputed            OnChainStatus = "DISPUTED"
	OnChainDisputedWithdrawn   OnChainStatus = "DISPUTED_WITHDRAWN"
)

var AllOnChainStatuses = []OnChainStatus{
	OnChainFundsLocked,
	OnChainResultSubmitted,
	OnChainFundsWithdrawn,
	OnChainFundsOrDatumInvalid,
	OnChainRefundRequested,
	OnChainRefundWithdrawn,
	OnChainDisputed,
	OnChainDisputedWithdrawn,
}

// AgentJobStatus is the remote agent's self-reported execution state.
type AgentJobStatus string

const (
	AgentJobPending         AgentJobStatus = "PENDING"
	AgentJobAwaitingPayment AgentJobStatus = "AWAITING_PAYMENT"
	AgentJobAwaitingInput   AgentJobStatus = "AWAITING_INPUT"
	AgentJobRunning         AgentJobStatus = "RUNNING"
	AgentJobCompleted       AgentJobStatus = "COMPLETED"
	AgentJobFailed          AgentJobStatus = "FAILED"
)

var AllAgentJobStatuses = []AgentJobStatus{
	AgentJobPending,
	AgentJobAwaitingPayment,
	AgentJobAwaitingInput,
	AgentJobRunning,
	AgentJobCompleted,
	AgentJobFailed,
}

// NextAction is the blockchain-facing operation still pending for a purchase.
type NextAction string

const (
	NextActionNone                     NextAction = "NONE"
	NextActionIgnore                   NextAction = "IGNORE"
	NextActionWaitingForManualAction   NextAction = "WAITING_FOR_MANUAL_ACTION"
	NextActionWaitingForExternalAction NextAction = "WAITING_FOR_EXTERNAL_ACTION"
	NextActionFundsLockingRequested    NextAction = "FUNDS_LOCKING_REQUESTED"
	NextActionFundsLockingInitiated    NextAction = "FUNDS_LOCKING_INITIATED"
	NextActionSetRefundRequested       NextAction = "SET_REFUND_REQUESTED"
	NextActionSetRefundInitiated       NextAction = "SET_REFUND_INITIATED"
	NextActionUnsetRefundRequested     NextAction = "UNSET_REFUND_REQUESTED"
	NextActionUnsetRefundInitiated     NextAction = "UNSET_REFUND_INITIATED"
	NextActionWithdrawRefundRequested  NextAction = "WITHDRAW_REFUND_REQUESTED"
	NextActionWithdrawRefundInitiated  NextAction = "WITHDRAW_REFUND_INITIATED"
)

var AllNextActions = []NextAction{
	NextActionNone,
	NextActionIgnore,
	NextActionWaitingForManualAction,
	NextActionWaitingForExternalAction,
	NextActionFundsLockingRequested,
	NextActionFundsLockingInitiated,
	NextActionSetRefundRequested,
	NextActionSetRefundInitiated,
	NextActionUnsetRefundRequested,
	NextActionUnsetRefundInitiated,
	NextActionWithdrawRefundRequested,
	NextActionWithdrawRefundInitiated,
}

// NextActionErrorType tags why the last blockchain-facing action failed.
// A nil *NextActionErrorType means no failure has been recorded.
type NextActionErrorType string

const (
	ErrorTypeNetworkError      NextActionErrorType = "NETWORK_ERROR"
	ErrorTypeInsufficientFunds NextActionErrorType = "INSUFFICIENT_FUNDS"
	ErrorTypeUnknown           NextActionErrorType = "UNKNOWN"
)

// TxStatus is the confirmation state of a blockchain transaction.
type TxStatus string

const (
	TxStatusPending   TxStatus = "PENDING"
	TxStatusCompleted TxStatus = "COMPLETED"
	TxStatusFailed    TxStatus = "FAILED"
)
