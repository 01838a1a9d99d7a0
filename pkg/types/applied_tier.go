package types

// AppliedTier snapshots the price tier stamped onto a cart line or a
// persisted distribution at resolution time.
type AppliedTier struct {
	MinQuantity              int    `json:"min_quantity"`
	MaxQuantity              *int   `json:"max_quantity,omitempty"`
	UnitPriceCents           int    `json:"unit_price_cents"`
	DiscountedUnitPriceCents *int   `json:"discounted_unit_price_cents,omitempty"`
	Label                    string `json:"label,omitempty"`
}
