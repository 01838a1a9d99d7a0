package product

import (
	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/internal/pricing"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
)

// TierDTO is one tier row in API responses.
type TierDTO struct {
	ID                       uuid.UUID `json:"id"`
	MinQuantity              int       `json:"minQuantity"`
	MaxQuantity              *int      `json:"maxQuantity,omitempty"`
	UnitPriceCents           int       `json:"unitPriceCents"`
	DiscountedUnitPriceCents *int      `json:"discountedUnitPriceCents,omitempty"`
}

// ImageDTO is one gallery entry in API responses.
type ImageDTO struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	IsPrimary bool      `json:"isPrimary"`
}

// StorefrontProduct is the listing card shape: the price preview is computed
// eagerly so the storefront renders without extra round trips.
type StorefrontProduct struct {
	ID                uuid.UUID                 `json:"id"`
	Title             string                    `json:"title"`
	Slug              string                    `json:"slug"`
	PriceCents        int                       `json:"priceCents"`
	PrimaryImageURL   *string                   `json:"primaryImageUrl,omitempty"`
	Colors            []string                  `json:"colors"`
	Sizes             []string                  `json:"sizes"`
	SizeKind          enums.SizeKind            `json:"sizeKind"`
	HasTieredPricing  bool                      `json:"hasTieredPricing"`
	StartingFromCents *int                      `json:"startingFromCents,omitempty"`
	FirstTier         *pricing.FirstTierPreview `json:"firstTier,omitempty"`
}

// ProductDetail is the full product shape for the detail page and seller tooling.
type ProductDetail struct {
	ID                   uuid.UUID      `json:"id"`
	SellerID             uuid.UUID      `json:"sellerId"`
	Title                string         `json:"title"`
	Slug                 string         `json:"slug"`
	Description          *string        `json:"description,omitempty"`
	PriceCents           int            `json:"priceCents"`
	DiscountedPriceCents *int           `json:"discountedPriceCents,omitempty"`
	Colors               []string       `json:"colors"`
	Sizes                []string       `json:"sizes"`
	SizeKind             enums.SizeKind `json:"sizeKind"`
	HasTieredPricing     bool           `json:"hasTieredPricing"`
	IsActive             bool           `json:"isActive"`
	Position             int            `json:"position"`
	Tiers                []TierDTO      `json:"tiers"`
	Images               []ImageDTO     `json:"images"`
}

// StorefrontPage is one page of listing cards plus the cursor for the next.
type StorefrontPage struct {
	Products   []StorefrontProduct `json:"products"`
	NextCursor *string             `json:"nextCursor,omitempty"`
}

func toTierDTOs(tiers []models.PriceTier) []TierDTO {
	out := make([]TierDTO, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, TierDTO{
			ID:                       tier.ID,
			MinQuantity:              tier.MinQuantity,
			MaxQuantity:              tier.MaxQuantity,
			UnitPriceCents:           tier.UnitPriceCents,
			DiscountedUnitPriceCents: tier.DiscountedUnitPriceCents,
		})
	}
	return out
}

func toImageDTOs(images []models.ProductImage) []ImageDTO {
	out := make([]ImageDTO, 0, len(images))
	for _, image := range images {
		out = append(out, ImageDTO{
			ID:        image.ID,
			URL:       image.URL,
			Position:  image.Position,
			IsPrimary: image.IsPrimary,
		})
	}
	return out
}

func primaryImageURL(images []models.ProductImage) *string {
	for _, image := range images {
		if image.IsPrimary {
			url := image.URL
			return &url
		}
	}
	if len(images) > 0 {
		url := images[0].URL
		return &url
	}
	return nil
}
