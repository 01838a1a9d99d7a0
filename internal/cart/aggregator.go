package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/internal/distribution"
	"github.com/vitrineturbo/vitrineturbo-backend/internal/pricing"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/logger"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/types"
)

// LineInput is one priced line produced by a commit, ready for persistence.
type LineInput struct {
	ProductID         uuid.UUID
	DistributionID    *uuid.UUID
	Title             string
	Slug              string
	Color             *string
	Size              *string
	Quantity          int
	UnitPriceCents    int
	LineSubtotalCents int
	AppliedTier       *types.AppliedTier
}

// Aggregator turns one commit action into priced cart lines. Every variant
// allocation of one purchase shares the unit price resolved at the aggregate
// quantity.
type Aggregator struct {
	logg *logger.Logger
}

// NewAggregator builds an aggregator with the provided logger.
func NewAggregator(logg *logger.Logger) *Aggregator {
	return &Aggregator{logg: logg}
}

// Commit prices the purchase and emits its cart lines. With no allocations it
// emits a single line carrying the optional selected color/size; with
// allocations it emits one line per allocation, all referencing the same
// distribution grouping.
func (a *Aggregator) Commit(ctx context.Context, product *models.Product, quantity int, selectedColor, selectedSize *string, items []distribution.Item) ([]LineInput, pricing.Result, error) {
	if product == nil {
		return nil, pricing.Result{}, pkgerrors.New(pkgerrors.CodeInternal, "product is required")
	}
	if quantity <= 0 {
		return nil, pricing.Result{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	result := pricing.Resolve(quantity, product.PriceTiers, product.PriceCents, product.DiscountedPriceCents)
	if result.UnitPriceCents <= 0 && len(product.PriceTiers) > 0 {
		fallback := a.fallbackPrice(product)
		ctx = a.logg.WithFields(ctx, map[string]any{
			"product_id":     product.ID.String(),
			"quantity":       quantity,
			"resolved_cents": result.UnitPriceCents,
			"fallback_cents": fallback,
		})
		a.logg.Warn(ctx, "pricing inconsistency: resolved unit price not positive, using fallback")
		result.UnitPriceCents = fallback
		result.TotalPriceCents = fallback * quantity
		result.AppliedTier = nil
		result.SavingsCents = 0
		result.SavingsSuspect = false
	}

	if len(items) == 0 {
		line := LineInput{
			ProductID:         product.ID,
			Title:             product.Title,
			Slug:              product.Slug,
			Color:             selectedColor,
			Size:              selectedSize,
			Quantity:          quantity,
			UnitPriceCents:    result.UnitPriceCents,
			LineSubtotalCents: result.UnitPriceCents * quantity,
			AppliedTier:       result.AppliedTier,
		}
		return []LineInput{line}, result, nil
	}

	distributionID := uuid.New()
	lines := make([]LineInput, 0, len(items))
	for _, item := range items {
		id := distributionID
		lines = append(lines, LineInput{
			ProductID:         product.ID,
			DistributionID:    &id,
			Title:             product.Title,
			Slug:              product.Slug,
			Color:             item.Color,
			Size:              item.Size,
			Quantity:          item.Quantity,
			UnitPriceCents:    result.UnitPriceCents,
			LineSubtotalCents: result.UnitPriceCents * item.Quantity,
			AppliedTier:       result.AppliedTier,
		})
	}
	return lines, result, nil
}

// fallbackPrice picks a known-good unit price when tier resolution produced
// an unusable value: the base price first, then the first tier's price.
func (a *Aggregator) fallbackPrice(product *models.Product) int {
	if product.PriceCents > 0 {
		return product.PriceCents
	}
	if preview, ok := pricing.FirstTierPrices(product.PriceTiers); ok {
		if preview.DiscountedUnitPriceCents != nil && *preview.DiscountedUnitPriceCents > 0 {
			return *preview.DiscountedUnitPriceCents
		}
		return preview.UnitPriceCents
	}
	return product.PriceCents
}
