package enums

// DistributionIssueCode identifies a single rule violated (or nearly violated)
// by a candidate variant distribution.
type DistributionIssueCode string

const (
	DistributionIssueTargetNotPositive DistributionIssueCode = "target_not_positive"
	DistributionIssueOverflow          DistributionIssueCode = "overflow"
	DistributionIssueIncomplete        DistributionIssueCode = "incomplete"
	DistributionIssueItemNotPositive   DistributionIssueCode = "item_quantity_not_positive"
	DistributionIssueDuplicateVariant  DistributionIssueCode = "duplicate_variant"
	DistributionIssueColorRequired     DistributionIssueCode = "color_required"
	DistributionIssueSizeRequired      DistributionIssueCode = "size_required"
)

// String implements fmt.Stringer.
func (d DistributionIssueCode) String() string {
	return string(d)
}
