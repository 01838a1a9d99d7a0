package checkout

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/types"
)

// SummaryLine is one purchased line in the handoff shape. Amounts are carried
// both in cents and as pre-formatted decimal strings so the messaging
// collaborator never re-derives money.
type SummaryLine struct {
	ProductID          uuid.UUID          `json:"productId"`
	Title              string             `json:"title"`
	VariantLabel       *string            `json:"variantLabel,omitempty"`
	Quantity           int                `json:"quantity"`
	UnitPriceCents     int                `json:"unitPriceCents"`
	UnitPriceAmount    string             `json:"unitPriceAmount"`
	LineSubtotalCents  int                `json:"lineSubtotalCents"`
	LineSubtotalAmount string             `json:"lineSubtotalAmount"`
	AppliedTier        *types.AppliedTier `json:"appliedTier,omitempty"`
	DistributionID     *uuid.UUID         `json:"distributionId,omitempty"`
}

// OrderSummary is the stable data shape handed to the message-formatting
// collaborator after a cart converts. It carries no rendered text.
type OrderSummary struct {
	CartID         uuid.UUID     `json:"cartId"`
	BuyerSessionID uuid.UUID     `json:"buyerSessionId"`
	Lines          []SummaryLine `json:"lines"`
	TotalItems     int           `json:"totalItems"`
	SubtotalCents  int           `json:"subtotalCents"`
	SubtotalAmount string        `json:"subtotalAmount"`
	TotalCents     int           `json:"totalCents"`
	TotalAmount    string        `json:"totalAmount"`
}

// BuildOrderSummary flattens a converted cart into the handoff shape.
func BuildOrderSummary(cart *models.CartRecord) OrderSummary {
	summary := OrderSummary{
		CartID:         cart.ID,
		BuyerSessionID: cart.BuyerSessionID,
		Lines:          make([]SummaryLine, 0, len(cart.Lines)),
	}

	for _, line := range cart.Lines {
		summary.TotalItems += line.Quantity
		summary.Lines = append(summary.Lines, SummaryLine{
			ProductID:          line.ProductID,
			Title:              line.Title,
			VariantLabel:       variantLabel(line.Color, line.Size),
			Quantity:           line.Quantity,
			UnitPriceCents:     line.UnitPriceCents,
			UnitPriceAmount:    centsToAmount(line.UnitPriceCents),
			LineSubtotalCents:  line.LineSubtotalCents,
			LineSubtotalAmount: centsToAmount(line.LineSubtotalCents),
			AppliedTier:        line.AppliedTier,
			DistributionID:     line.DistributionID,
		})
	}

	summary.SubtotalCents = cart.SubtotalCents
	summary.SubtotalAmount = centsToAmount(cart.SubtotalCents)
	summary.TotalCents = cart.TotalCents
	summary.TotalAmount = centsToAmount(cart.TotalCents)
	return summary
}

func centsToAmount(cents int) string {
	return decimal.NewFromInt(int64(cents)).Shift(-2).StringFixed(2)
}

func variantLabel(color, size *string) *string {
	parts := []string{}
	if color != nil && *color != "" {
		parts = append(parts, *color)
	}
	if size != nil && *size != "" {
		parts = append(parts, *size)
	}
	if len(parts) == 0 {
		return nil
	}
	label := strings.Join(parts, " / ")
	return &label
}
