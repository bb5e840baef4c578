// Package stats provides the small amount of descriptive statistics used by
// the anomaly report.
package stats

import "math"

// MeanStdDev returns the mean and population standard deviation of values.
// Both are zero for an empty slice.
func MeanStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

// ZScores returns (v - mean) / stddev for every value. When the standard
// deviation is zero every score is zero.
func ZScores(values []float64) []float64 {
	scores := make([]float64, len(values))
	mean, stddev := MeanStdDev(values)
	if stddev == 0 {
		return scores
	}
	for i, v := range values {
		scores[i] = (v - mean) / stddev
	}
	return scores
}

// Outliers returns the indexes of values whose z-score is at least threshold.
// A series without spread has no outliers.
func Outliers(values []float64, threshold float64) []int {
	if _, stddev := MeanStdDev(values); stddev == 0 {
		return nil
	}
	var idx []int
	for i, z := range ZScores(values) {
		if z >= threshold {
			idx = append(idx, i)
		}
	}
	return idx
}
