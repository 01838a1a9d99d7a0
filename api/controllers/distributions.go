package controllers

import (
	"net/http"

	"github.com/vitrineturbo/vitrineturbo-backend/api/responses"
	"github.com/vitrineturbo/vitrineturbo-backend/api/validators"
	"github.com/vitrineturbo/vitrineturbo-backend/internal/distribution"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/logger"
)

type distributionItemRequest struct {
	Color    *string `json:"color" validate:"omitempty,max=60"`
	Size     *string `json:"size" validate:"omitempty,max=60"`
	Quantity int     `json:"quantity" validate:"required"`
}

type validateDistributionRequest struct {
	TargetTotal int                       `json:"targetTotal" validate:"required"`
	Items       []distributionItemRequest `json:"items" validate:"omitempty,dive"`
}

// DistributionsValidate checks a candidate allocation and returns the full
// report. Incomplete allocations come back as warnings, never errors, so the
// UI can keep the picker open while the buyer fills the remainder.
func DistributionsValidate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload validateDistributionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]distribution.Item, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, distribution.Item{
				Color:    item.Color,
				Size:     item.Size,
				Quantity: item.Quantity,
			})
		}

		report := distribution.Validate(payload.TargetTotal, items)
		responses.WriteSuccess(w, report)
	}
}
