package sim

import "sort"

// ActivityBottleneck scores one activity by frequency times mean duration:
// a step can dominate total process time by being slow, common, or both.
type ActivityBottleneck struct {
	Activity    string  `json:"activity"`
	Frequency   int     `json:"frequency"`
	MeanMinutes float64 `json:"mean_minutes"`
	Score       float64 `json:"score"`
}

// ActivityBottlenecks ranks activities by bottleneck score, descending.
func ActivityBottlenecks(log *EventLog) []ActivityBottleneck {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, c := range log.Cases {
		for _, inst := range c.Instances {
			totals[inst.Activity] += inst.DurationMinutes()
			counts[inst.Activity]++
		}
	}

	out := make([]ActivityBottleneck, 0, len(counts))
	for activity, count := range counts {
		mean := totals[activity] / float64(count)
		out = append(out, ActivityBottleneck{
			Activity:    activity,
			Frequency:   count,
			MeanMinutes: mean,
			Score:       float64(count) * mean,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Activity < out[j].Activity
	})
	return out
}

// PathBottleneck scores one directly-follows transition by frequency times
// mean start-to-start gap between the two activities.
type PathBottleneck struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Frequency   int     `json:"frequency"`
	MeanMinutes float64 `json:"mean_minutes"`
	Score       float64 `json:"score"`
}

// PathBottlenecks ranks transitions by bottleneck score, descending. The
// transition duration is measured start-to-start: it covers the source
// activity plus any waiting time before the target begins.
func PathBottlenecks(log *EventLog) []PathBottleneck {
	totals := make(map[Edge]float64)
	counts := make(map[Edge]int)
	for _, c := range log.Cases {
		for i := 1; i < len(c.Instances); i++ {
			edge := Edge{
				Source: c.Instances[i-1].Activity,
				Target: c.Instances[i].Activity,
			}
			gap := c.Instances[i].Start.Sub(c.Instances[i-1].Start).Minutes()
			totals[edge] += gap
			counts[edge]++
		}
	}

	out := make([]PathBottleneck, 0, len(counts))
	for edge, count := range counts {
		mean := totals[edge] / float64(count)
		out = append(out, PathBottleneck{
			Source:      edge.Source,
			Target:      edge.Target,
			Frequency:   count,
			MeanMinutes: mean,
			Score:       float64(count) * mean,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}
