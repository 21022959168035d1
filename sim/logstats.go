package sim

import "sort"

// ActivityPerformance is the per-activity view of the historical log.
type ActivityPerformance struct {
	Activity    string  `json:"activity"`
	Frequency   int     `json:"frequency"`
	MeanMinutes float64 `json:"mean_minutes"`
	MinMinutes  float64 `json:"min_minutes"`
	MaxMinutes  float64 `json:"max_minutes"`
}

// LogStats is the dataset-level overview of an event log.
type LogStats struct {
	TotalCases      int                   `json:"total_cases"`
	TotalEvents     int                   `json:"total_events"`
	TotalActivities int                   `json:"total_activities"`
	CaseDuration    Summary               `json:"case_duration"`
	Activities      []ActivityPerformance `json:"activities"`
}

// ComputeLogStats summarizes the log: case/event/activity counts, case
// total-duration summary, and per-activity performance rows sorted by
// descending frequency.
func ComputeLogStats(log *EventLog) LogStats {
	type acc struct {
		count    int
		total    float64
		min, max float64
	}
	byActivity := make(map[string]*acc)
	caseTotals := make([]float64, 0, len(log.Cases))

	for _, c := range log.Cases {
		caseTotals = append(caseTotals, c.TotalDurationMinutes())
		for _, inst := range c.Instances {
			minutes := inst.DurationMinutes()
			a, ok := byActivity[inst.Activity]
			if !ok {
				byActivity[inst.Activity] = &acc{count: 1, total: minutes, min: minutes, max: minutes}
				continue
			}
			a.count++
			a.total += minutes
			if minutes < a.min {
				a.min = minutes
			}
			if minutes > a.max {
				a.max = minutes
			}
		}
	}

	perf := make([]ActivityPerformance, 0, len(byActivity))
	for activity, a := range byActivity {
		perf = append(perf, ActivityPerformance{
			Activity:    activity,
			Frequency:   a.count,
			MeanMinutes: a.total / float64(a.count),
			MinMinutes:  a.min,
			MaxMinutes:  a.max,
		})
	}
	sort.Slice(perf, func(i, j int) bool {
		if perf[i].Frequency != perf[j].Frequency {
			return perf[i].Frequency > perf[j].Frequency
		}
		return perf[i].Activity < perf[j].Activity
	})

	return LogStats{
		TotalCases:      len(log.Cases),
		TotalEvents:     log.NumEvents(),
		TotalActivities: len(byActivity),
		CaseDuration:    Summarize(caseTotals),
		Activities:      perf,
	}
}
