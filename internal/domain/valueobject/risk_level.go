package valueobject

import "fmt"

// RiskLevel is an immutable value object representing the tri-level risk
// classification.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow    = RiskLevel{value: "LOW"}
	RiskLevelMedium = RiskLevel{value: "MEDIUM"}
	RiskLevelHigh   = RiskLevel{value: "HIGH"}
)

// EventThresholds holds the banding thresholds for real-time event scores.
// A score strictly above High is HIGH, strictly above Medium is MEDIUM,
// else LOW.
type EventThresholds struct {
	Medium float64
	High   float64
}

// DefaultEventThresholds are the observed production defaults.
func DefaultEventThresholds() EventThresholds {
	return EventThresholds{Medium: 55, High: 70}
}

// AggregateThresholds holds the banding thresholds for user-level weighted
// risk. A weighted value at or above High is HIGH, at or above Medium is
// MEDIUM, else LOW.
type AggregateThresholds struct {
	Medium float64
	High   float64
}

// DefaultAggregateThresholds are the observed production defaults.
func DefaultAggregateThresholds() AggregateThresholds {
	return AggregateThresholds{Medium: 40, High: 70}
}

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "LOW":
		return RiskLevelLow, nil
	case "MEDIUM":
		return RiskLevelMedium, nil
	case "HIGH":
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromEventScore bands a real-time event score (0-100).
func RiskLevelFromEventScore(score float64, t EventThresholds) RiskLevel {
	switch {
	case score > t.High:
		return RiskLevelHigh
	case score > t.Medium:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// RiskLevelFromWeighted bands a user-level weighted risk value (0-100).
func RiskLevelFromWeighted(weighted float64, t AggregateThresholds) RiskLevel {
	switch {
	case weighted >= t.High:
		return RiskLevelHigh
	case weighted >= t.Medium:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
