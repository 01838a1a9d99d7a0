package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/types"
)

// VariantDistribution is a committed allocation of one aggregate purchase
// quantity across variant combinations. Updates replace the item set whole;
// there is no incremental diffing.
type VariantDistribution struct {
	ID                    uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerSessionID        uuid.UUID                `gorm:"column:buyer_session_id;type:uuid;not null"`
	ProductID             uuid.UUID                `gorm:"column:product_id;type:uuid;not null"`
	TotalQuantity         int                      `gorm:"column:total_quantity;not null"`
	AppliedUnitPriceCents int                      `gorm:"column:applied_unit_price_cents;not null"`
	AppliedTier           *types.AppliedTier       `gorm:"column:applied_tier;type:jsonb;serializer:json"`
	Status                enums.DistributionStatus `gorm:"column:status;not null;default:'active'"`
	Items                 []DistributionItem       `gorm:"foreignKey:DistributionID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// DistributionItem is one variant allocation inside a distribution. The
// (color, size) combination is unique within its distribution.
type DistributionItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DistributionID uuid.UUID `gorm:"column:distribution_id;type:uuid;not null"`
	Color          *string   `gorm:"column:color"`
	Size           *string   `gorm:"column:size"`
	Quantity       int       `gorm:"column:quantity;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
