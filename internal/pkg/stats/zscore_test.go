package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeanStdDev(t *testing.T) {
	tests := []struct {
		name       string
		values     []float64
		wantMean   float64
		wantStdDev float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{4}, 4, 0},
		{"constant", []float64{3, 3, 3}, 3, 0},
		{"population", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, sd := MeanStdDev(tt.values)
			if !almostEqual(mean, tt.wantMean) || !almostEqual(sd, tt.wantStdDev) {
				t.Fatalf("MeanStdDev(%v) = (%v, %v), want (%v, %v)", tt.values, mean, sd, tt.wantMean, tt.wantStdDev)
			}
		})
	}
}

func TestZScores(t *testing.T) {
	scores := ZScores([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := []float64{-1.5, -0.5, -0.5, -0.5, 0, 0, 1, 2}
	for i := range want {
		if !almostEqual(scores[i], want[i]) {
			t.Fatalf("score[%d] = %v, want %v", i, scores[i], want[i])
		}
	}
}

func TestZScoresZeroDeviation(t *testing.T) {
	for i, z := range ZScores([]float64{1, 1, 1}) {
		if z != 0 {
			t.Fatalf("score[%d] = %v, want 0", i, z)
		}
	}
}

func TestOutliers(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	got := Outliers(values, 2.0)
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("Outliers(threshold 2) = %v, want [7]", got)
	}

	got = Outliers(values, 1.0)
	if len(got) != 2 || got[0] != 6 || got[1] != 7 {
		t.Fatalf("Outliers(threshold 1) = %v, want [6 7]", got)
	}

	for _, threshold := range []float64{0, -1, 2} {
		if got := Outliers([]float64{5, 5, 5}, threshold); len(got) != 0 {
			t.Fatalf("constant series flagged %v at threshold %v", got, threshold)
		}
	}
}
