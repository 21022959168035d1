package sim

import "fmt"

// InterventionKind discriminates the duration-modification variants.
type InterventionKind string

const (
	// KindDeterministic replaces every sampled duration with a fixed value.
	KindDeterministic InterventionKind = "deterministic"
	// KindSpeedup scales every sampled duration by (1 - fraction).
	KindSpeedup InterventionKind = "speedup"
	// KindSlowdown scales every sampled duration by (1 + fraction).
	KindSlowdown InterventionKind = "slowdown"
)

// Intervention is a what-if modification of one activity's durations.
// Construct through Deterministic, Speedup or Slowdown so that range
// validation happens at creation time, not at simulation time.
type Intervention struct {
	Kind  InterventionKind `json:"kind"`
	Value float64          `json:"value"` // fixed minutes (deterministic) or fraction (speedup/slowdown)
}

// Deterministic builds an intervention that pins an activity's duration to
// a fixed number of minutes. The value must be non-negative.
func Deterministic(minutes float64) (Intervention, error) {
	if minutes < 0 {
		return Intervention{}, InvalidInterventionError{
			Reason: fmt.Sprintf("deterministic value must be >= 0, got %v", minutes),
		}
	}
	return Intervention{Kind: KindDeterministic, Value: minutes}, nil
}

// Speedup builds an intervention that scales durations by (1 - fraction).
// The fraction must lie strictly between 0 and 1; a 100% speedup is
// rejected as ambiguous — use Deterministic(0) to make the intent explicit.
func Speedup(fraction float64) (Intervention, error) {
	if fraction <= 0 || fraction >= 1 {
		return Intervention{}, InvalidInterventionError{
			Reason: fmt.Sprintf("speedup fraction must be in (0,1), got %v", fraction),
		}
	}
	return Intervention{Kind: KindSpeedup, Value: fraction}, nil
}

// Slowdown builds an intervention that scales durations by (1 + fraction).
// The fraction must be positive.
func Slowdown(fraction float64) (Intervention, error) {
	if fraction <= 0 {
		return Intervention{}, InvalidInterventionError{
			Reason: fmt.Sprintf("slowdown fraction must be > 0, got %v", fraction),
		}
	}
	return Intervention{Kind: KindSlowdown, Value: fraction}, nil
}

// Apply transforms one resampled duration. Results are clamped at 0 so a
// scaled value can never go negative.
func (iv Intervention) Apply(sample float64) float64 {
	var out float64
	switch iv.Kind {
	case KindDeterministic:
		out = iv.Value
	case KindSpeedup:
		out = sample * (1 - iv.Value)
	case KindSlowdown:
		out = sample * (1 + iv.Value)
	default:
		out = sample
	}
	if out < 0 {
		return 0
	}
	return out
}

// InterventionSet maps activity name to its intervention. At most one
// intervention per activity; an absent key leaves historical behavior
// unchanged.
type InterventionSet map[string]Intervention
