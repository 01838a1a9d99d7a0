package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/types"
)

// Result is the outcome of resolving a quantity against a product's tier
// table. Resolution never fails for business data: callers inspect
// UnitPriceCents and apply their own fallback when it is not positive.
type Result struct {
	Quantity             int                `json:"quantity"`
	UnitPriceCents       int                `json:"unitPriceCents"`
	TotalPriceCents      int                `json:"totalPriceCents"`
	AppliedTier          *types.AppliedTier `json:"appliedTier,omitempty"`
	SavingsCents         int                `json:"savingsCents"`
	SavingsSuspect       bool               `json:"savingsSuspect,omitempty"`
	NextTier             *types.AppliedTier `json:"nextTier,omitempty"`
	NextTierSavingsCents int                `json:"nextTierSavingsCents,omitempty"`
	UnitsToNextTier      int                `json:"unitsToNextTier,omitempty"`
}

// FirstTierPreview is the lowest tier's price pair for storefront cards.
type FirstTierPreview struct {
	UnitPriceCents           int  `json:"unitPriceCents"`
	DiscountedUnitPriceCents *int `json:"discountedUnitPriceCents,omitempty"`
	HasPromotionalPricing    bool `json:"hasPromotionalPricing"`
	DiscountPercent          int  `json:"discountPercent"`
}

// Resolve maps an aggregate quantity onto the product's tier table.
//
// The applicable tier is the last tier, ascending by MinQuantity, whose range
// covers the quantity. With no tiers, or no tier covering the quantity, the
// product's own price pair applies and no tier metadata is reported. Savings
// compare against the product's baseline price and are reported unclamped; a
// negative value flags misconfigured tiers via SavingsSuspect rather than
// being hidden here.
func Resolve(quantity int, tiers []models.PriceTier, basePriceCents int, baseDiscountedPriceCents *int) Result {
	baseline := basePriceCents
	if validDiscount(baseDiscountedPriceCents, basePriceCents) {
		baseline = *baseDiscountedPriceCents
	}

	if len(tiers) == 0 {
		return baseResult(quantity, baseline)
	}

	sorted := make([]models.PriceTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity < sorted[j].MinQuantity
	})

	var selected *models.PriceTier
	for i := range sorted {
		if sorted[i].Matches(quantity) {
			selected = &sorted[i]
		}
	}
	if selected == nil {
		// no tier covers the quantity, the product prices as untiered
		return baseResult(quantity, baseline)
	}

	var next *models.PriceTier
	for i := range sorted {
		if sorted[i].MinQuantity > quantity {
			next = &sorted[i]
			break
		}
	}

	result := baseResult(quantity, baseline)
	unit := selected.EffectiveUnitPriceCents()
	result.UnitPriceCents = unit
	result.TotalPriceCents = unit * quantity
	result.AppliedTier = appliedTier(*selected)
	result.SavingsCents = baseline*quantity - unit*quantity
	result.SavingsSuspect = result.SavingsCents < 0

	if next != nil {
		nextUnit := next.EffectiveUnitPriceCents()
		result.NextTier = appliedTier(*next)
		result.NextTierSavingsCents = baseline*next.MinQuantity - nextUnit*next.MinQuantity
		result.UnitsToNextTier = next.MinQuantity - quantity
	}

	return result
}

// MinimumPrice returns the lowest effective unit price across the tier table.
// The second return is false when the table is empty.
func MinimumPrice(tiers []models.PriceTier) (int, bool) {
	if len(tiers) == 0 {
		return 0, false
	}
	min := tiers[0].EffectiveUnitPriceCents()
	for _, tier := range tiers[1:] {
		if price := tier.EffectiveUnitPriceCents(); price < min {
			min = price
		}
	}
	return min, true
}

// FirstTierPrices returns the lowest-MinQuantity tier's price pair for the
// storefront "starting from" card. The discount percent is rounded to the
// nearest whole number.
func FirstTierPrices(tiers []models.PriceTier) (FirstTierPreview, bool) {
	if len(tiers) == 0 {
		return FirstTierPreview{}, false
	}

	first := tiers[0]
	for _, tier := range tiers[1:] {
		if tier.MinQuantity < first.MinQuantity {
			first = tier
		}
	}

	preview := FirstTierPreview{
		UnitPriceCents:           first.UnitPriceCents,
		DiscountedUnitPriceCents: first.DiscountedUnitPriceCents,
	}

	if validDiscount(first.DiscountedUnitPriceCents, first.UnitPriceCents) {
		preview.HasPromotionalPricing = true
		discount := decimal.NewFromInt(int64(first.UnitPriceCents - *first.DiscountedUnitPriceCents)).
			Div(decimal.NewFromInt(int64(first.UnitPriceCents))).
			Mul(decimal.NewFromInt(100)).
			Round(0)
		preview.DiscountPercent = int(discount.IntPart())
	}

	return preview, true
}

func baseResult(quantity, unitPriceCents int) Result {
	return Result{
		Quantity:        quantity,
		UnitPriceCents:  unitPriceCents,
		TotalPriceCents: unitPriceCents * quantity,
	}
}

func appliedTier(tier models.PriceTier) *types.AppliedTier {
	label := fmt.Sprintf("tier %d+", tier.MinQuantity)
	if tier.MaxQuantity != nil {
		label = fmt.Sprintf("tier %d-%d", tier.MinQuantity, *tier.MaxQuantity)
	}
	return &types.AppliedTier{
		MinQuantity:              tier.MinQuantity,
		MaxQuantity:              tier.MaxQuantity,
		UnitPriceCents:           tier.UnitPriceCents,
		DiscountedUnitPriceCents: tier.DiscountedUnitPriceCents,
		Label:                    label,
	}
}

func validDiscount(discounted *int, regular int) bool {
	return discounted != nil && *discounted > 0 && *discounted < regular
}
