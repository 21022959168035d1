package sim

import "fmt"

// EmptyLogError reports that model construction was attempted on an event
// log with zero cases. Deterministic data problem; never retried.
type EmptyLogError struct{}

func (EmptyLogError) Error() string {
	return "event log contains no cases"
}

// InvalidInterventionError reports an intervention rejected at creation
// time because its value or fraction is out of range.
type InvalidInterventionError struct {
	Reason string
}

func (e InvalidInterventionError) Error() string {
	return fmt.Sprintf("invalid intervention: %s", e.Reason)
}

// ModelIncompleteError reports that an activity reachable through the
// transition model has no historical durations to resample from. The
// simulation must abort rather than substitute a default: a fabricated
// duration would silently corrupt every downstream statistic.
type ModelIncompleteError struct {
	Activity string
}

func (e ModelIncompleteError) Error() string {
	return fmt.Sprintf("no historical durations recorded for activity %q", e.Activity)
}
