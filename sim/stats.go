package sim

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary is the fixed statistical summary shape shared by baseline and
// simulated reports. All duration values are minutes.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// Summarize computes a Summary over the given values. The input slice is
// not modified. An empty input yields the zero Summary.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count:  n,
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
	if n > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// Delta captures the change from a baseline summary to a simulated one.
type Delta struct {
	AbsoluteMean float64 `json:"absolute_mean"`
	PercentMean  float64 `json:"percent_mean"`
}

// NewDelta computes mean deltas between two summaries. Percent change is 0
// when the baseline mean is 0 (no meaningful relative change exists).
func NewDelta(baseline, simulated Summary) Delta {
	d := Delta{AbsoluteMean: simulated.Mean - baseline.Mean}
	if baseline.Mean != 0 {
		d.PercentMean = 100 * d.AbsoluteMean / baseline.Mean
	}
	return d
}
