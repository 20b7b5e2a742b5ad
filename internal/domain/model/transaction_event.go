package model

// EventKind distinguishes the two risk-bearing event families.
type EventKind string

const (
	EventKindLogin       EventKind = "LOGIN"
	EventKindTransaction EventKind = "TRANSACTION"
)

// Transaction types as reported by the transaction collaborator.
const (
	TransactionTypeTransfer   = "TRANSFER"
	TransactionTypeDeposit    = "DEPOSIT"
	TransactionTypeWithdrawal = "WITHDRAWAL"
	TransactionTypePayment    = "PAYMENT"
)

// Transaction lifecycle statuses consumed by the decision notifier.
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFlagged   = "FLAGGED"
)
