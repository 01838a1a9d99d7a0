package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/api/middleware"
	"github.com/vitrineturbo/vitrineturbo-backend/api/responses"
	"github.com/vitrineturbo/vitrineturbo-backend/api/validators"
	cartsvc "github.com/vitrineturbo/vitrineturbo-backend/internal/cart"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/logger"
)

// CartFetch exposes the active cart for the buyer session.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := buyerSessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetActiveCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(record))
	}
}

// CartAddItem commits a purchase with a complete variant allocation.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return addHandler(svc, logg, svc.AddToCart)
}

// CartAddPartial commits a purchase while the allocation is still short of
// the target quantity. Pricing still resolves at the full target.
func CartAddPartial(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return addHandler(svc, logg, svc.AddPartialDistribution)
}

// CartUpdateDistribution replaces a committed distribution wholesale and
// re-resolves the tier at the new total.
func CartUpdateDistribution(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := buyerSessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		distributionID, err := uuid.Parse(chi.URLParam(r, "distributionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid distribution id"))
			return
		}

		var payload cartsvc.UpdateDistributionInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateDistribution(r.Context(), sessionID, distributionID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(record))
	}
}

// CartRemoveLine drops a line; when it is the last line of a distribution the
// distribution goes with it.
func CartRemoveLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := buyerSessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID, err := uuid.Parse(chi.URLParam(r, "lineId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		record, err := svc.RemoveLine(r.Context(), sessionID, lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(record))
	}
}

func addHandler(svc cartsvc.Service, logg *logger.Logger, commit func(context.Context, uuid.UUID, cartsvc.AddToCartInput) (*models.CartRecord, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := buyerSessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartsvc.AddToCartInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := commit(r.Context(), sessionID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(record))
	}
}

func buyerSessionIDFromContext(r *http.Request) (uuid.UUID, error) {
	if r == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer session missing")
	}
	raw := middleware.BuyerSessionFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer session missing")
	}
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid buyer session")
	}
	return sessionID, nil
}
