package sim

import "math/rand"

// DurationSampler draws activity durations from historical pools, applying
// interventions where present. Safe for concurrent use as long as each
// caller supplies its own *rand.Rand.
type DurationSampler struct {
	profiles      map[string]DurationProfile
	interventions InterventionSet
}

// NewDurationSampler builds a sampler over the given duration pools and
// intervention set. interventions may be nil.
func NewDurationSampler(profiles map[string]DurationProfile, interventions InterventionSet) *DurationSampler {
	return &DurationSampler{profiles: profiles, interventions: interventions}
}

// Sample returns one duration (minutes) for the activity.
//
// A deterministic intervention short-circuits the draw entirely. Otherwise
// one historical value is resampled uniformly with replacement, scaled by
// any speedup/slowdown intervention, and clamped at 0. An activity with no
// recorded durations yields a ModelIncompleteError; no default is ever
// substituted.
func (s *DurationSampler) Sample(activity string, rng *rand.Rand) (float64, error) {
	iv, intervened := s.interventions[activity]
	if intervened && iv.Kind == KindDeterministic {
		return iv.Value, nil
	}

	profile, ok := s.profiles[activity]
	if !ok || len(profile) == 0 {
		return 0, ModelIncompleteError{Activity: activity}
	}

	sample := profile[rng.Intn(len(profile))]
	if intervened {
		sample = iv.Apply(sample)
	}
	if sample < 0 {
		sample = 0
	}
	return sample, nil
}
