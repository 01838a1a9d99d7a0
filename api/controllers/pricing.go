package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/api/responses"
	"github.com/vitrineturbo/vitrineturbo-backend/api/validators"
	productsvc "github.com/vitrineturbo/vitrineturbo-backend/internal/products"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/logger"
)

type priceQuoteRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// PricingQuote resolves a quantity against a product's tier table. The
// storefront calls this on every quantity change, so it never mutates state.
func PricingQuote(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload priceQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.QuotePrice(r.Context(), payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
