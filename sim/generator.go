package sim

import "math/rand"

// DefaultMaxTraceLength is the trace length cap applied when a
// configuration leaves it unset.
const DefaultMaxTraceLength = 1000

// TraceStep is one simulated activity execution.
type TraceStep struct {
	Activity string  `json:"activity"`
	Duration float64 `json:"duration"` // minutes
}

// SimulatedTrace is the synthetic analogue of a Case: the activity path of
// one Monte-Carlo run with its sampled durations. Truncated marks traces
// stopped by the length cap rather than by reaching a terminal activity;
// an unusually high truncation rate across a result signals a cyclic or
// misconfigured model.
type SimulatedTrace struct {
	Steps     []TraceStep `json:"steps"`
	Truncated bool        `json:"truncated"`
}

// TotalDuration returns the trace's total duration in minutes.
func (t SimulatedTrace) TotalDuration() float64 {
	total := 0.0
	for _, s := range t.Steps {
		total += s.Duration
	}
	return total
}

// Activities returns the trace's activity path.
func (t SimulatedTrace) Activities() []string {
	names := make([]string, len(t.Steps))
	for i, s := range t.Steps {
		names[i] = s.Activity
	}
	return names
}

// TraceGenerator walks the transition table as a first-order Markov chain:
// the next activity depends only on the current one, never on earlier
// history. Stateless between calls; all randomness comes from the
// *rand.Rand passed to Generate.
type TraceGenerator struct {
	table   *TransitionTable
	sampler *DurationSampler
	maxLen  int
}

// NewTraceGenerator builds a generator over a transition table and duration
// sampler. maxLen caps the trace length; it must be positive.
func NewTraceGenerator(table *TransitionTable, sampler *DurationSampler, maxLen int) *TraceGenerator {
	return &TraceGenerator{table: table, sampler: sampler, maxLen: maxLen}
}

// Generate produces one synthetic trace. The start activity is drawn from
// the start distribution; each subsequent activity from the current row.
// Every generated activity is immediately given a sampled duration. The
// walk stops at a terminal activity, or sets Truncated when the length cap
// is hit first. A sampling failure aborts the trace with the error.
func (g *TraceGenerator) Generate(rng *rand.Rand) (SimulatedTrace, error) {
	var trace SimulatedTrace
	current := g.table.StartActivity(rng)

	for {
		duration, err := g.sampler.Sample(current, rng)
		if err != nil {
			return SimulatedTrace{}, err
		}
		trace.Steps = append(trace.Steps, TraceStep{Activity: current, Duration: duration})

		if g.table.IsTerminal(current) {
			return trace, nil
		}
		if len(trace.Steps) >= g.maxLen {
			trace.Truncated = true
			return trace, nil
		}
		current, _ = g.table.NextActivity(current, rng)
	}
}
