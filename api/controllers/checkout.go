package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/api/middleware"
	"github.com/vitrineturbo/vitrineturbo-backend/api/responses"
	checkoutsvc "github.com/vitrineturbo/vitrineturbo-backend/internal/checkout"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/logger"
)

// Checkout converts the buyer's active cart and returns the order summary
// that the external payment collaborator consumes.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID, err := buyerSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Checkout(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

func buyerSessionID(r *http.Request) (uuid.UUID, error) {
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
