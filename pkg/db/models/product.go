package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a seller's storefront listing.
type Product struct {
	ID                   uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID             uuid.UUID      `gorm:"column:seller_id;type:uuid;not null"`
	Title                string         `gorm:"column:title;not null"`
	Slug                 string         `gorm:"column:slug;not null"`
	Description          *string        `gorm:"column:description"`
	PriceCents           int            `gorm:"column:price_cents;not null"`
	DiscountedPriceCents *int           `gorm:"column:discounted_price_cents"`
	Colors               pq.StringArray `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	Sizes                pq.StringArray `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	HasTieredPricing     bool           `gorm:"column:has_tiered_pricing;not null;default:false"`
	IsActive             bool           `gorm:"column:is_active;not null;default:true"`
	Position             int            `gorm:"column:position;not null;default:0"`
	PriceTiers           []PriceTier    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images               []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// HasColorAxis reports whether buyers must pick a color for this product.
func (p Product) HasColorAxis() bool {
	return len(p.Colors) > 0
}

// HasSizeAxis reports whether buyers must pick a size for this product.
func (p Product) HasSizeAxis() bool {
	return len(p.Sizes) > 0
}

// ProductImage stores one gallery entry for a product.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	URL       string    `gorm:"column:url;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
