package enums

import "fmt"

// InterestLevel is the taxonomic granularity of a declared interest.
type InterestLevel string

const (
	InterestLevelSpecies InterestLevel = "species"
	InterestLevelGenus   InterestLevel = "genus"
	InterestLevelFamily  InterestLevel = "family"
)

var validInterestLevels = []InterestLevel{
	InterestLevelSpecies,
	InterestLevelGenus,
	InterestLevelFamily,
}

// String implements fmt.Stringer.
func (i InterestLevel) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InterestLevel.
func (i InterestLevel) IsValid() bool {
	for _, candidate := range validInterestLevels {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInterestLevel converts raw input into an InterestLevel.
func ParseInterestLevel(value string) (InterestLevel, error) {
	for _, candidate := range validInterestLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid interest level %q", value)
}
