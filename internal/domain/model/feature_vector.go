package model

import "math"

// RiskFeatureVector is the ephemeral feature set sent to the external ML
// scorer. Built fresh per scoring call; never stored.
type RiskFeatureVector struct {
	AvgAmount7d      float64
	TxVelocity1h     float64
	DeviceChangeFreq float64
	CurrentHour      float64
	UsualHourMean    float64
}

// TimeOfDayDeviation is the absolute distance between the current hour and
// the user's usual transaction hour, as the external scoring contract
// expects it.
func (v RiskFeatureVector) TimeOfDayDeviation() float64 {
	return math.Abs(v.CurrentHour - v.UsualHourMean)
}
