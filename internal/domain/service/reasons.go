package service

import (
	"github.com/shopspring/decimal"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
)

// EventContext carries the transaction-level signals the reason rules
// evaluate. For login events Amount is zero and the amount rules stay quiet.
type EventContext struct {
	Kind      model.EventKind
	Amount    decimal.Decimal
	Features  model.RiskFeatureVector
	NewDevice bool
}

// ContextRule is a named reason rule from the fixed catalogue. Each fired
// rule contributes at most one reason; the aggregator joins them in firing
// order.
type ContextRule interface {
	Name() string
	Evaluate(ec EventContext) (reason string, fired bool)
}

// HighAmountRule fires when the amount exceeds three times the user's
// 7-day average.
type HighAmountRule struct {
	Multiplier float64
}

func (r *HighAmountRule) Name() string { return "amount_vs_average" }

func (r *HighAmountRule) Evaluate(ec EventContext) (string, bool) {
	if ec.Features.AvgAmount7d <= 0 || ec.Amount.IsZero() {
		return "", false
	}
	limit := decimal.NewFromFloat(ec.Features.AvgAmount7d * r.Multiplier)
	if ec.Amount.GreaterThan(limit) {
		return "Amount > 3x daily average", true
	}
	return "", false
}

// NewDeviceHighAmountRule fires when an unrecognized device moves a large
// amount.
type NewDeviceHighAmountRule struct {
	AmountFloor decimal.Decimal
}

func (r *NewDeviceHighAmountRule) Name() string { return "new_device_high_amount" }

func (r *NewDeviceHighAmountRule) Evaluate(ec EventContext) (string, bool) {
	if ec.NewDevice && ec.Amount.GreaterThan(r.AmountFloor) {
		return "New device + high amount", true
	}
	return "", false
}

// VelocityRule fires when the user's 1-hour transaction velocity exceeds
// the limit.
type VelocityRule struct {
	Limit float64
}

func (r *VelocityRule) Name() string { return "tx_velocity" }

func (r *VelocityRule) Evaluate(ec EventContext) (string, bool) {
	if ec.Features.TxVelocity1h > r.Limit {
		return "High transaction velocity", true
	}
	return "", false
}

// DefaultContextRules returns the reason catalogue in firing order.
func DefaultContextRules() []ContextRule {
	return []ContextRule{
		&HighAmountRule{Multiplier: 3},
		&NewDeviceHighAmountRule{AmountFloor: decimal.NewFromInt(10000)},
		&VelocityRule{Limit: 5},
	}
}
