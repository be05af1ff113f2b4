package enums

import "fmt"

// SpeciesRank classifies a species row within the taxonomy.
type SpeciesRank string

const (
	SpeciesRankSpecies    SpeciesRank = "species"
	SpeciesRankVariety    SpeciesRank = "variety"
	SpeciesRankSubspecies SpeciesRank = "subspecies"
	SpeciesRankCultivar   SpeciesRank = "cultivar"
	SpeciesRankHybrid     SpeciesRank = "hybrid"
	SpeciesRankCross      SpeciesRank = "cross"
)

var validSpeciesRanks = []SpeciesRank{
	SpeciesRankSpecies,
	SpeciesRankVariety,
	SpeciesRankSubspecies,
	SpeciesRankCultivar,
	SpeciesRankHybrid,
	SpeciesRankCross,
}

// String implements fmt.Stringer.
func (s SpeciesRank) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SpeciesRank.
func (s SpeciesRank) IsValid() bool {
	for _, candidate := range validSpeciesRanks {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSpeciesRank converts raw input into a SpeciesRank.
func ParseSpeciesRank(value string) (SpeciesRank, error) {
	for _, candidate := range validSpeciesRanks {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid species rank %q", value)
}
