package factors

import (
	"github.com/chancify/chancify/internal/optfloat"
)

// Neutral is the midpoint default substituted for missing factor scores.
const Neutral = 5.0

// Set maps factors to optional 0-10 scores. Missing and absent are distinct
// from zero; a gated-out factor is present in the map with an absent value.
type Set map[Factor]optfloat.Value

// Get returns the stored value for f, absent when the key is missing.
func (s Set) Get(f Factor) optfloat.Value {
	if s == nil {
		return optfloat.None()
	}
	return s[f]
}

// Has reports whether the raw input carried a present value for f. Used by
// the audit layer to distinguish "neutral default" from a real 5.0.
func (s Set) Has(f Factor) bool {
	if s == nil {
		return false
	}
	v, ok := s[f]
	return ok && v.Valid
}

// Policy captures the two college-specific gates that exclude factors from
// scoring entirely. Immutable per request.
type Policy struct {
	UsesTesting bool `json:"uses_testing" yaml:"uses_testing"`
	NeedAware   bool `json:"need_aware" yaml:"need_aware"`
}

// Normalize fills missing factor scores with the neutral default and applies
// policy gates. Gates override any supplied value: a test-blind college
// excludes testing outright, a need-blind college excludes ability to pay.
// The returned set always covers the full universe; gated-out or
// unknown-and-not-defaulted factors carry an absent value. Out-of-range
// inputs pass through for the scorer to clamp.
func Normalize(scores Set, policy Policy, treatMissingAsNeutral bool) Set {
	out := make(Set, len(Universe))

	for _, f := range Universe {
		v := scores.Get(f)
		if !v.Valid && treatMissingAsNeutral {
			v = optfloat.Some(Neutral)
		}

		switch {
		case f == Testing && !policy.UsesTesting:
			v = optfloat.None()
		case f == AbilityToPay && !policy.NeedAware:
			v = optfloat.None()
		}

		out[f] = v
	}

	return out
}
