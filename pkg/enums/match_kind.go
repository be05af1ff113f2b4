package enums

import "fmt"

// MatchKind classifies a trade candidate by reciprocity strength.
// Only perfect and decent matches are produced today; the remaining
// kinds exist so unclassified tiers stay visible in the type system.
type MatchKind string

const (
	MatchKindPerfect        MatchKind = "perfect_match"
	MatchKindDecent         MatchKind = "decent_match"
	MatchKindMaybePotential MatchKind = "maybe_potential"
	MatchKindUnlikely       MatchKind = "unlikely"
)

var validMatchKinds = []MatchKind{
	MatchKindPerfect,
	MatchKindDecent,
	MatchKindMaybePotential,
	MatchKindUnlikely,
}

// String implements fmt.Stringer.
func (m MatchKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MatchKind.
func (m MatchKind) IsValid() bool {
	for _, candidate := range validMatchKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMatchKind converts raw input into a MatchKind.
func ParseMatchKind(value string) (MatchKind, error) {
	for _, candidate := range validMatchKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid match kind %q", value)
}
