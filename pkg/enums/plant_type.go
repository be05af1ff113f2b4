package enums

import "fmt"

// PlantType records how a plant instance was propagated.
type PlantType string

const (
	PlantTypeSeedGrown  PlantType = "seed_grown"
	PlantTypeCutting    PlantType = "cutting"
	PlantTypeDivision   PlantType = "division"
	PlantTypeTissueCult PlantType = "tissue_culture"
	PlantTypeFullPlant  PlantType = "full_plant"
)

var validPlantTypes = []PlantType{
	PlantTypeSeedGrown,
	PlantTypeCutting,
	PlantTypeDivision,
	PlantTypeTissueCult,
	PlantTypeFullPlant,
}

// String implements fmt.Stringer.
func (p PlantType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PlantType.
func (p PlantType) IsValid() bool {
	for _, candidate := range validPlantTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlantType converts raw input into a PlantType.
func ParsePlantType(value string) (PlantType, error) {
	for _, candidate := range validPlantTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plant type %q", value)
}
