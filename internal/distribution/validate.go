package distribution

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
)

// Issue is one validation finding with a machine code and a message the UI
// can render verbatim.
type Issue struct {
	Code    enums.DistributionIssueCode `json:"code"`
	Message string                      `json:"message"`
	ItemID  *uuid.UUID                  `json:"itemId,omitempty"`
}

// Report is the outcome of validating a (target, items) pair. Warnings never
// affect IsValid; callers choose whether an incomplete allocation blocks
// their flow.
type Report struct {
	IsValid  bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Validate checks a candidate allocation independently of any ledger state.
// It is pure and produces the same report for the same input every time.
func Validate(targetTotal int, items []Item) Report {
	report := Report{Errors: []Issue{}, Warnings: []Issue{}}

	if targetTotal <= 0 {
		report.Errors = append(report.Errors, Issue{
			Code:    enums.DistributionIssueTargetNotPositive,
			Message: fmt.Sprintf("target quantity must be positive, got %d", targetTotal),
		})
	}

	sum := 0
	seen := map[string]bool{}
	for i := range items {
		item := items[i]
		sum += item.Quantity

		if item.Quantity <= 0 {
			report.Errors = append(report.Errors, Issue{
				Code:    enums.DistributionIssueItemNotPositive,
				Message: fmt.Sprintf("variant %s has a non-positive quantity (%d)", variantLabel(item.Color, item.Size), item.Quantity),
				ItemID:  itemIDRef(item),
			})
		}

		key := variantKey(item.Color, item.Size)
		if seen[key] {
			report.Errors = append(report.Errors, Issue{
				Code:    enums.DistributionIssueDuplicateVariant,
				Message: fmt.Sprintf("variant %s appears more than once", variantLabel(item.Color, item.Size)),
				ItemID:  itemIDRef(item),
			})
		}
		seen[key] = true
	}

	if targetTotal > 0 {
		switch {
		case sum > targetTotal:
			report.Errors = append(report.Errors, Issue{
				Code:    enums.DistributionIssueOverflow,
				Message: fmt.Sprintf("allocated %d of a target of %d (%d over)", sum, targetTotal, sum-targetTotal),
			})
		case sum < targetTotal:
			report.Warnings = append(report.Warnings, Issue{
				Code:    enums.DistributionIssueIncomplete,
				Message: fmt.Sprintf("allocated %d of a target of %d (%d remaining)", sum, targetTotal, targetTotal-sum),
			})
		}
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

func itemIDRef(item Item) *uuid.UUID {
	if item.ID == uuid.Nil {
		return nil
	}
	id := item.ID
	return &id
}
