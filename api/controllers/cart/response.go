package cart

import (
	cartdto "github.com/vitrineturbo/vitrineturbo-backend/api/controllers/cart/dto"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
)

func newCartView(record *models.CartRecord) cartdto.CartView {
	lines := make([]cartdto.CartViewLine, 0, len(record.Lines))
	totalItems := 0
	for _, line := range record.Lines {
		totalItems += line.Quantity
		lines = append(lines, cartdto.CartViewLine{
			ID:                line.ID,
			ProductID:         line.ProductID,
			DistributionID:    line.DistributionID,
			Title:             line.Title,
			Slug:              line.Slug,
			Color:             line.Color,
			Size:              line.Size,
			Quantity:          line.Quantity,
			UnitPriceCents:    line.UnitPriceCents,
			LineSubtotalCents: line.LineSubtotalCents,
			AppliedTier:       line.AppliedTier,
			CreatedAt:         line.CreatedAt,
		})
	}

	return cartdto.CartView{
		ID:             record.ID,
		BuyerSessionID: record.BuyerSessionID,
		Status:         record.Status,
		SubtotalCents:  record.SubtotalCents,
		TotalCents:     record.TotalCents,
		TotalItems:     totalItems,
		Lines:          lines,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}
