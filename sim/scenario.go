package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is the on-disk simulation configuration.
// Loaded from YAML via LoadScenario(path).
//
// Example:
//
//	run_count: 1000
//	max_trace_length: 50
//	seed: 42
//	interventions:
//	  Review Claim:
//	    type: speedup
//	    fraction: 0.25
//	  Approve:
//	    type: deterministic
//	    value: 0
type Scenario struct {
	RunCount       int                         `yaml:"run_count"`
	MaxTraceLength int                         `yaml:"max_trace_length"`
	Seed           int64                       `yaml:"seed"`
	Interventions  map[string]InterventionSpec `yaml:"interventions,omitempty"`
}

// InterventionSpec is the YAML form of one intervention.
type InterventionSpec struct {
	Type     string  `yaml:"type" json:"type"`                             // deterministic | speedup | slowdown
	Value    float64 `yaml:"value,omitempty" json:"value,omitempty"`       // fixed minutes (deterministic)
	Fraction float64 `yaml:"fraction,omitempty" json:"fraction,omitempty"` // scale fraction (speedup/slowdown)
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// RunConfig converts the scenario into a validated RunConfig. Intervention
// range errors surface here, before any simulation work starts.
func (s *Scenario) RunConfig() (RunConfig, error) {
	cfg := RunConfig{
		RunCount:       s.RunCount,
		MaxTraceLength: s.MaxTraceLength,
		Seed:           s.Seed,
	}
	if cfg.MaxTraceLength == 0 {
		cfg.MaxTraceLength = DefaultMaxTraceLength
	}
	if len(s.Interventions) > 0 {
		cfg.Interventions = make(InterventionSet, len(s.Interventions))
		for activity, spec := range s.Interventions {
			iv, err := spec.Build()
			if err != nil {
				return RunConfig{}, fmt.Errorf("intervention for %q: %w", activity, err)
			}
			cfg.Interventions[activity] = iv
		}
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// Build validates and constructs the described intervention.
func (s InterventionSpec) Build() (Intervention, error) {
	switch InterventionKind(s.Type) {
	case KindDeterministic:
		return Deterministic(s.Value)
	case KindSpeedup:
		return Speedup(s.Fraction)
	case KindSlowdown:
		return Slowdown(s.Fraction)
	default:
		return Intervention{}, InvalidInterventionError{
			Reason: fmt.Sprintf("unknown intervention type %q", s.Type),
		}
	}
}
