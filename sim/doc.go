// Package sim provides the core process-simulation engine for FlowMetriQ.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - eventlog.go: the cleaned historical event log (cases of timed activity instances)
//   - dfmodel.go: directly-follows model construction (transition table + duration pools)
//   - generator.go: first-order Markov trace generation
//   - montecarlo.go: the Monte-Carlo orchestrator and result aggregation
//
// # Architecture
//
// The engine is a pure computation pipeline. An EventLog is built once from
// cleaned records, BuildModel derives a TransitionTable and per-activity
// DurationProfiles from it, and Run replays the model N times under an
// optional InterventionSet, comparing the synthetic log against the
// historical baseline.
//
// All randomness flows through explicit *rand.Rand instances derived from a
// PartitionedRNG (rng.go). The same seed, model, and interventions always
// produce a bit-identical SimulationResult, and the N runs draw from
// disjoint sub-streams so the fan-out in montecarlo.go may execute in
// parallel without breaking reproducibility.
//
// Analysis helpers that operate on the same EventLog but sit outside the
// simulation path live in dfg.go, variants.go, bottleneck.go, logstats.go
// and predict.go.
package sim
