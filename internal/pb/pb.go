// Package pb implements the PB Detector (§4.4): comparing a newly inserted
// workout's metrics against the pre-insert maxima to decide whether each
// metric is a personal best.
package pb

import "github.com/ironlog-dev/ironlog/internal/types"

// PreInsertMaxima is the pre-insert max-metric snapshot the Workout Engine
// takes before inserting a new row (§4.4); engine.Snapshot has the same
// shape so callers can convert with a plain struct literal.
type PreInsertMaxima struct {
	Weight   *float64
	Reps     *float64
	Duration *float64
	Distance *float64
}

// Detect compares the new entry's four metrics against the pre-insert
// maxima snapshot. achieved is true when the new value is strictly
// greater than the prior maximum; a nil prior max counts as "no prior
// record", so the first non-null entry for a metric is always a PB.
func Detect(pre PreInsertMaxima, weight, reps, duration, distance *float64) types.PBInfo {
	return types.PBInfo{
		Weight:   detectMetric(pre.Weight, weight),
		Reps:     detectMetric(pre.Reps, reps),
		Duration: detectMetric(pre.Duration, duration),
		Distance: detectMetric(pre.Distance, distance),
	}
}

func detectMetric(previous *float64, newValue *float64) types.MetricPB {
	if newValue == nil {
		return types.MetricPB{}
	}
	achieved := previous == nil || *newValue > *previous
	return types.MetricPB{
		Achieved:      achieved,
		NewValue:      *newValue,
		PreviousValue: previous,
	}
}
