package enums

import "fmt"

// Region is the delivery/shoot location a customer picks on the quote form.
type Region string

const (
	RegionCentral   Region = "central"
	RegionNorthEast Region = "north_east"
	RegionNorthWest Region = "north_west"
	RegionSouthEast Region = "south_east"
	RegionSouthWest Region = "south_west"
	RegionOther     Region = "other"
)

var validRegions = []Region{
	RegionCentral,
	RegionNorthEast,
	RegionNorthWest,
	RegionSouthEast,
	RegionSouthWest,
	RegionOther,
}

var regionLabels = map[Region]string{
	RegionCentral:   "Central Singapore",
	RegionNorthEast: "North East Region",
	RegionNorthWest: "North West Region",
	RegionSouthEast: "South East Region",
	RegionSouthWest: "South West Region",
	RegionOther:     "Other (International)",
}

// String implements fmt.Stringer.
func (r Region) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Region.
func (r Region) IsValid() bool {
	for _, candidate := range validRegions {
		if candidate == r {
			return true
		}
	}
	return false
}

// Label returns the human display name, or the raw code for unknown values.
func (r Region) Label() string {
	if label, ok := regionLabels[r]; ok {
		return label
	}
	return string(r)
}

// Regions lists the accepted codes in form order.
func Regions() []Region {
	out := make([]Region, len(validRegions))
	copy(out, validRegions)
	return out
}

// ParseRegion converts raw input into a Region.
func ParseRegion(value string) (Region, error) {
	for _, candidate := range validRegions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid region %q", value)
}
