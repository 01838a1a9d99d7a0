package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/api/responses"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/logger"
)

const buyerSessionHeader = "X-Buyer-Session"

// BuyerSession requires a buyer session id on the request. The storefront
// client mints the id once per browser session and replays it on every cart
// and checkout call; without it there is no cart to address.
func BuyerSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(buyerSessionHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer session header required"))
				return
			}

			sessionID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid buyer session"))
				return
			}

			ctx := WithBuyerSession(r.Context(), sessionID.String())
			if logg != nil {
				ctx = logg.WithBuyerSession(ctx, sessionID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
