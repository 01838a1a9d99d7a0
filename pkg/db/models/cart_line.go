package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/types"
)

// CartLine is one priced purchase line. Lines that came out of a variant
// distribution share a DistributionID and the unit price resolved for the
// aggregate quantity.
type CartLine struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID            uuid.UUID          `gorm:"column:cart_id;type:uuid;not null"`
	ProductID         uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	DistributionID    *uuid.UUID         `gorm:"column:distribution_id;type:uuid"`
	Title             string             `gorm:"column:title;not null"`
	Slug              string             `gorm:"column:slug;not null"`
	Color             *string            `gorm:"column:color"`
	Size              *string            `gorm:"column:size"`
	Quantity          int                `gorm:"column:quantity;not null"`
	UnitPriceCents    int                `gorm:"column:unit_price_cents;not null"`
	LineSubtotalCents int                `gorm:"column:line_subtotal_cents;not null"`
	AppliedTier       *types.AppliedTier `gorm:"column:applied_tier;type:jsonb;serializer:json"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
}
