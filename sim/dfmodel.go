package sim

import (
	"math/rand"
	"sort"
)

// DurationProfile is the pool of observed historical durations (minutes)
// for one activity. Simulation resamples from it with replacement;
// duplicates are retained on purpose so common values (for example
// zero-duration automated steps) keep their empirical weight. No
// parametric distribution is ever fitted.
type DurationProfile []float64

// transitionRow holds one weighted-choice distribution as parallel slices:
// sorted target names, their probabilities, and cumulative probabilities.
// The cumulative form lets a draw be a single uniform sample plus a binary
// search, avoiding any repeated re-normalization drift.
type transitionRow struct {
	targets []string
	probs   []float64
	cum     []float64
}

func newTransitionRow(counts map[string]int) transitionRow {
	targets := make([]string, 0, len(counts))
	for t := range counts {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	total := 0
	for _, c := range counts {
		total += c
	}

	row := transitionRow{
		targets: targets,
		probs:   make([]float64, len(targets)),
		cum:     make([]float64, len(targets)),
	}
	cumulative := 0.0
	for i, t := range targets {
		p := float64(counts[t]) / float64(total)
		cumulative += p
		row.probs[i] = p
		row.cum[i] = cumulative
	}
	// Force the last entry to exactly 1.0 against float accumulation error.
	row.cum[len(row.cum)-1] = 1.0
	return row
}

// draw picks one target with a single uniform sample over [0,1).
func (r transitionRow) draw(rng *rand.Rand) string {
	u := rng.Float64()
	idx := sort.SearchFloat64s(r.cum, u)
	if idx >= len(r.targets) {
		idx = len(r.targets) - 1
	}
	return r.targets[idx]
}

func (r transitionRow) asMap() map[string]float64 {
	out := make(map[string]float64, len(r.targets))
	for i, t := range r.targets {
		out[t] = r.probs[i]
	}
	return out
}

// TransitionTable is the first-order directly-follows model: per-source
// outgoing probability rows, the start-activity distribution, and the set
// of activities observed ending a case. Immutable once built.
type TransitionTable struct {
	rows  map[string]transitionRow
	start transitionRow
	ends  map[string]struct{}
}

// BuildModel derives the transition table and per-activity duration pools
// from an event log. Pure function of the input; returns EmptyLogError if
// the log has no cases.
func BuildModel(log *EventLog) (*TransitionTable, map[string]DurationProfile, error) {
	if log == nil || len(log.Cases) == 0 {
		return nil, nil, EmptyLogError{}
	}

	pairCounts := make(map[string]map[string]int)
	startCounts := make(map[string]int)
	ends := make(map[string]struct{})
	profiles := make(map[string]DurationProfile)

	for _, c := range log.Cases {
		if len(c.Instances) == 0 {
			continue
		}
		startCounts[c.Instances[0].Activity]++
		ends[c.Instances[len(c.Instances)-1].Activity] = struct{}{}

		for i, inst := range c.Instances {
			profiles[inst.Activity] = append(profiles[inst.Activity], inst.DurationMinutes())
			if i == 0 {
				continue
			}
			src := c.Instances[i-1].Activity
			if pairCounts[src] == nil {
				pairCounts[src] = make(map[string]int)
			}
			pairCounts[src][inst.Activity]++
		}
	}

	if len(startCounts) == 0 {
		return nil, nil, EmptyLogError{}
	}

	table := &TransitionTable{
		rows:  make(map[string]transitionRow, len(pairCounts)),
		start: newTransitionRow(startCounts),
		ends:  ends,
	}
	for src, counts := range pairCounts {
		table.rows[src] = newTransitionRow(counts)
	}
	return table, profiles, nil
}

// StartActivity draws the first activity of a trace from the
// start-activity distribution.
func (t *TransitionTable) StartActivity(rng *rand.Rand) string {
	return t.start.draw(rng)
}

// NextActivity draws the successor of the current activity. ok is false
// when the activity is terminal (no outgoing transitions were observed).
func (t *TransitionTable) NextActivity(current string, rng *rand.Rand) (next string, ok bool) {
	row, exists := t.rows[current]
	if !exists {
		return "", false
	}
	return row.draw(rng), true
}

// IsTerminal reports whether the activity has no outgoing transitions.
// A terminal activity always ends a trace when reached.
func (t *TransitionTable) IsTerminal(activity string) bool {
	_, hasOut := t.rows[activity]
	return !hasOut
}

// OutgoingProbabilities returns the probability row for a source activity,
// or nil for terminal activities.
func (t *TransitionTable) OutgoingProbabilities(source string) map[string]float64 {
	row, ok := t.rows[source]
	if !ok {
		return nil
	}
	return row.asMap()
}

// StartDistribution returns the probability of each activity starting a case.
func (t *TransitionTable) StartDistribution() map[string]float64 {
	return t.start.asMap()
}

// EndActivities returns the sorted set of activities observed as case
// terminators in the historical log.
func (t *TransitionTable) EndActivities() []string {
	out := make([]string, 0, len(t.ends))
	for a := range t.ends {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Sources returns the sorted list of non-terminal activities.
func (t *TransitionTable) Sources() []string {
	out := make([]string, 0, len(t.rows))
	for a := range t.rows {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
