package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
)

// Notification kinds emitted by the decision notifier.
const (
	NotificationMoneyDeducted        = "MONEY_DEDUCTED"
	NotificationPaymentPending       = "PAYMENT_PENDING"
	NotificationTransactionCompleted = "TRANSACTION_COMPLETED"
	NotificationUserFlagged          = "USER_FLAGGED"
)

// NotificationIntent describes one notification to be delivered to a user.
// The notifier renders intents only; delivery belongs to the messaging layer.
type NotificationIntent struct {
	Kind    string
	Title   string
	Message string
}

// Notifier renders notification intents from transaction decisions. Pure, no
// I/O.
type Notifier struct{}

// NewNotifier creates a Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// IntentFor renders the notification intent for one settled or pending
// transaction. A pending transaction carries its decision reasons in a
// trailing because-clause; the clause is omitted entirely when no reasons
// exist. Completed transfers are announced as money deducted, other
// completed types as transaction completed.
func (n *Notifier) IntentFor(transactionType string, amount decimal.Decimal, description, status string, reasons []string) NotificationIntent {
	base := fmt.Sprintf("Your payment of ₹%s for: %s", amount.StringFixed(2), description)

	switch status {
	case model.TransactionStatusPending:
		msg := base
		if len(reasons) > 0 {
			msg += " is pending because: " + strings.Join(reasons, ", ")
		}
		return NotificationIntent{
			Kind:    NotificationPaymentPending,
			Title:   "Payment Pending",
			Message: msg,
		}
	case model.TransactionStatusCompleted:
		if transactionType == model.TransactionTypeTransfer {
			return NotificationIntent{
				Kind:    NotificationMoneyDeducted,
				Title:   "Money Deducted",
				Message: base + " has been deducted from your account",
			}
		}
		return NotificationIntent{
			Kind:    NotificationTransactionCompleted,
			Title:   "Transaction Completed",
			Message: base + " is completed",
		}
	default:
		return NotificationIntent{
			Kind:    NotificationTransactionCompleted,
			Title:   "Transaction Update",
			Message: base,
		}
	}
}

// FlaggedUserIntent renders the operator-facing intent raised when a user's
// aggregate risk reaches the flagged band.
func (n *Notifier) FlaggedUserIntent(level string) NotificationIntent {
	return NotificationIntent{
		Kind:    NotificationUserFlagged,
		Title:   "Account Review Required",
		Message: fmt.Sprintf("Unusual activity detected on your account (risk level: %s). Some features may be limited pending review.", level),
	}
}
