package service

import (
	"time"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
)

// RuleResult is the contribution of a fired heuristic rule.
type RuleResult struct {
	Penalty float64
	Reason  string
}

// HeuristicRule is a named, swappable fingerprint rule. Evaluate returns nil
// when the rule does not fire. Rules encode policy judgments (night hours
// riskier, mobile identity weaker) and live behind this registry so the rule
// set can change without touching the aggregation core.
type HeuristicRule interface {
	Name() string
	Evaluate(fp model.DeviceFingerprint, now time.Time) *RuleResult
}

// OffHoursRule fires when the local hour falls outside the configured
// normal window.
type OffHoursRule struct {
	DayStart int // first normal hour, inclusive
	DayEnd   int // first off hour, inclusive upper bound of the window
	Penalty  float64
}

func (r *OffHoursRule) Name() string { return "off_hours" }

func (r *OffHoursRule) Evaluate(_ model.DeviceFingerprint, now time.Time) *RuleResult {
	hour := now.Hour()
	if hour < r.DayStart || hour >= r.DayEnd {
		return &RuleResult{Penalty: r.Penalty, Reason: "Login outside usual hours"}
	}
	return nil
}

// MobileDeviceRule fires for phone-class devices. A policy choice: mobile is
// treated as a weaker identity-consistency signal than desktop.
type MobileDeviceRule struct {
	Penalty float64
}

func (r *MobileDeviceRule) Name() string { return "mobile_device" }

func (r *MobileDeviceRule) Evaluate(fp model.DeviceFingerprint, _ time.Time) *RuleResult {
	if fp.DeviceType.IsMobile() {
		return &RuleResult{Penalty: r.Penalty, Reason: "Mobile device session"}
	}
	return nil
}

// HeuristicConfig holds the tunable penalties for the default rule set.
type HeuristicConfig struct {
	BaseScore       float64
	DayStartHour    int
	DayEndHour      int
	OffHoursPenalty float64
	MobilePenalty   float64
}

// DefaultHeuristicConfig returns the observed production defaults.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		BaseScore:       50,
		DayStartHour:    6,
		DayEndHour:      22,
		OffHoursPenalty: 20,
		MobilePenalty:   10,
	}
}

// DefaultHeuristicRules returns the built-in fingerprint rules in their
// evaluation order.
func DefaultHeuristicRules(cfg HeuristicConfig) []HeuristicRule {
	return []HeuristicRule{
		&OffHoursRule{DayStart: cfg.DayStartHour, DayEnd: cfg.DayEndHour, Penalty: cfg.OffHoursPenalty},
		&MobileDeviceRule{Penalty: cfg.MobilePenalty},
	}
}
