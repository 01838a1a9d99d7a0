package enums

import "fmt"

// DistributionStatus tracks the lifecycle of a persisted variant distribution.
type DistributionStatus string

const (
	DistributionStatusActive    DistributionStatus = "active"
	DistributionStatusConverted DistributionStatus = "converted"
)

var validDistributionStatuses = []DistributionStatus{
	DistributionStatusActive,
	DistributionStatusConverted,
}

// String implements fmt.Stringer.
func (d DistributionStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DistributionStatus.
func (d DistributionStatus) IsValid() bool {
	for _, candidate := range validDistributionStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDistributionStatus converts raw input into a DistributionStatus.
func ParseDistributionStatus(value string) (DistributionStatus, error) {
	for _, candidate := range validDistributionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid distribution status %q", value)
}
