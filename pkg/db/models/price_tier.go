package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceTier captures one quantity range of a product's tiered pricing.
// MaxQuantity nil means the range is open-ended upward.
type PriceTier struct {
	ID                       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID                 uuid.UUID `gorm:"column:seller_id;type:uuid;not null"`
	ProductID                uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	MinQuantity              int       `gorm:"column:min_quantity;not null"`
	MaxQuantity              *int      `gorm:"column:max_quantity"`
	UnitPriceCents           int       `gorm:"column:unit_price_cents;not null"`
	DiscountedUnitPriceCents *int      `gorm:"column:discounted_unit_price_cents"`
	CreatedAt                time.Time `gorm:"column:created_at;autoCreateTime"`
}

// EffectiveUnitPriceCents returns the promotional price when configured and
// coherent, otherwise the regular tier price.
func (t PriceTier) EffectiveUnitPriceCents() int {
	if t.DiscountedUnitPriceCents != nil && *t.DiscountedUnitPriceCents > 0 && *t.DiscountedUnitPriceCents < t.UnitPriceCents {
		return *t.DiscountedUnitPriceCents
	}
	return t.UnitPriceCents
}

// Matches reports whether the tier's range covers the requested quantity.
func (t PriceTier) Matches(quantity int) bool {
	if t.MinQuantity > quantity {
		return false
	}
	return t.MaxQuantity == nil || *t.MaxQuantity >= quantity
}
