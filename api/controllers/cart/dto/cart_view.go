package cartdto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/types"
)

// CartView is the authoritative cart snapshot exposed through the API.
type CartView struct {
	ID             uuid.UUID        `json:"id"`
	BuyerSessionID uuid.UUID        `json:"buyer_session_id"`
	Status         enums.CartStatus `json:"status"`
	SubtotalCents  int              `json:"subtotal_cents"`
	TotalCents     int              `json:"total_cents"`
	TotalItems     int              `json:"total_items"`
	Lines          []CartViewLine   `json:"lines"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// CartViewLine describes each committed line in the cart snapshot. Lines that
// came from one variant distribution share a distribution id.
type CartViewLine struct {
	ID                uuid.UUID          `json:"id"`
	ProductID         uuid.UUID          `json:"product_id"`
	DistributionID    *uuid.UUID         `json:"distribution_id,omitempty"`
	Title             string             `json:"title"`
	Slug              string             `json:"slug"`
	Color             *string            `json:"color,omitempty"`
	Size              *string            `json:"size,omitempty"`
	Quantity          int                `json:"quantity"`
	UnitPriceCents    int                `json:"unit_price_cents"`
	LineSubtotalCents int                `json:"line_subtotal_cents"`
	AppliedTier       *types.AppliedTier `json:"applied_tier,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}
