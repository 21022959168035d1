package sim

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RunConfig is the full configuration surface of one simulation invocation.
type RunConfig struct {
	RunCount       int             `json:"run_count"`
	MaxTraceLength int             `json:"max_trace_length"`
	Seed           int64           `json:"seed"`
	Interventions  InterventionSet `json:"interventions,omitempty"`
}

// Validate rejects non-positive counts and lengths before any work starts.
func (c RunConfig) Validate() error {
	if c.RunCount <= 0 {
		return fmt.Errorf("run_count must be positive, got %d", c.RunCount)
	}
	if c.MaxTraceLength <= 0 {
		return fmt.Errorf("max_trace_length must be positive, got %d", c.MaxTraceLength)
	}
	return nil
}

// Report groups the statistical summaries computed identically for the
// historical baseline and the synthetic log: one Summary per activity over
// its durations, and one Summary over per-case total durations.
type Report struct {
	Activities   map[string]Summary `json:"activities"`
	CaseDuration Summary            `json:"case_duration"`
}

// SimulationResult is the immutable outcome of one orchestration: the full
// synthetic trace set, baseline and simulated reports, their deltas, and
// the truncation count. Plain data, ready for presentation or storage.
type SimulationResult struct {
	Traces            []SimulatedTrace `json:"traces"`
	Baseline          Report           `json:"baseline"`
	Simulated         Report           `json:"simulated"`
	ActivityDeltas    map[string]Delta `json:"activity_deltas"`
	CaseDurationDelta Delta            `json:"case_duration_delta"`
	TruncatedRuns     int              `json:"truncated_runs"`
	RunCount          int              `json:"run_count"`
	Seed              int64            `json:"seed"`
}

// BaselineReport computes the historical reference statistics from the
// event log: per-activity duration summaries and the per-case
// total-duration summary.
func BaselineReport(log *EventLog) Report {
	byActivity := make(map[string][]float64)
	caseTotals := make([]float64, 0, len(log.Cases))

	for _, c := range log.Cases {
		caseTotals = append(caseTotals, c.TotalDurationMinutes())
		for _, inst := range c.Instances {
			byActivity[inst.Activity] = append(byActivity[inst.Activity], inst.DurationMinutes())
		}
	}

	report := Report{Activities: make(map[string]Summary, len(byActivity))}
	for activity, durations := range byActivity {
		report.Activities[activity] = Summarize(durations)
	}
	report.CaseDuration = Summarize(caseTotals)
	return report
}

// simulatedReport aggregates the synthetic traces into the same shape as
// the baseline report.
func simulatedReport(traces []SimulatedTrace) Report {
	byActivity := make(map[string][]float64)
	traceTotals := make([]float64, 0, len(traces))

	for _, tr := range traces {
		traceTotals = append(traceTotals, tr.TotalDuration())
		for _, step := range tr.Steps {
			byActivity[step.Activity] = append(byActivity[step.Activity], step.Duration)
		}
	}

	report := Report{Activities: make(map[string]Summary, len(byActivity))}
	for activity, durations := range byActivity {
		report.Activities[activity] = Summarize(durations)
	}
	report.CaseDuration = Summarize(traceTotals)
	return report
}

// Run executes cfg.RunCount independent trace generations against the
// model and packages the comparison with the historical baseline.
//
// Each run consumes its own sub-stream derived from cfg.Seed, so the runs
// form one reproducible sequence: identical seed, model and interventions
// give a bit-identical SimulationResult. Runs have no data dependency on
// each other and fan out across CPUs; results land in a slice indexed by
// run number so scheduling order cannot leak into the output.
//
// A ModelIncompleteError from any run cancels the remaining ones and fails
// the whole invocation. No partial result is ever returned.
func Run(ctx context.Context, log *EventLog, table *TransitionTable, profiles map[string]DurationProfile, cfg RunConfig) (*SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil || len(log.Cases) == 0 {
		return nil, EmptyLogError{}
	}

	baseline := BaselineReport(log)
	sampler := NewDurationSampler(profiles, cfg.Interventions)
	generator := NewTraceGenerator(table, sampler, cfg.MaxTraceLength)

	// Derive all sub-streams up front from a single goroutine; the
	// PartitionedRNG cache is not safe for concurrent first access.
	prng := NewPartitionedRNG(cfg.Seed)
	rngs := make([]*rand.Rand, cfg.RunCount)
	for i := range rngs {
		rngs[i] = prng.ForRun(i)
	}

	traces := make([]SimulatedTrace, cfg.RunCount)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < cfg.RunCount; i++ {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trace, err := generator.Generate(rngs[i])
			if err != nil {
				return err
			}
			traces[i] = trace
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &SimulationResult{
		Traces:         traces,
		Baseline:       baseline,
		Simulated:      simulatedReport(traces),
		ActivityDeltas: make(map[string]Delta),
		RunCount:       cfg.RunCount,
		Seed:           cfg.Seed,
	}
	for _, tr := range traces {
		if tr.Truncated {
			result.TruncatedRuns++
		}
	}
	for activity, base := range baseline.Activities {
		if simulated, ok := result.Simulated.Activities[activity]; ok {
			result.ActivityDeltas[activity] = NewDelta(base, simulated)
		}
	}
	result.CaseDurationDelta = NewDelta(baseline.CaseDuration, result.Simulated.CaseDuration)

	logrus.Debugf("simulation complete: %d runs, %d truncated, seed=%d",
		result.RunCount, result.TruncatedRuns, result.Seed)
	return result, nil
}
