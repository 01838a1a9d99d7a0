package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/api/responses"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/logger"
)

const sellerIDHeader = "X-Seller-Id"

// SellerContext requires an authenticated seller id on the request. The
// identity itself is established upstream (gateway or admin shell); this
// layer only trusts and propagates the header.
func SellerContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(sellerIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller header required"))
				return
			}

			sellerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid seller id"))
				return
			}

			ctx := WithSellerID(r.Context(), sellerID.String())
			if logg != nil {
				ctx = logg.WithSellerID(ctx, sellerID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
