package controllers

import (
	"net/http"
	"strings"

	"github.com/cambroos/rentals-backend/api/responses"
	"github.com/cambroos/rentals-backend/api/validators"
	"github.com/cambroos/rentals-backend/internal/relay"
	pkgerrors "github.com/cambroos/rentals-backend/pkg/errors"
	"github.com/cambroos/rentals-backend/pkg/logger"
	"github.com/cambroos/rentals-backend/pkg/metrics"
	"github.com/cambroos/rentals-backend/pkg/types"
)

const sendOrderSuccessMessage = "Order request sent successfully"

var sendOrderAllow = strings.Join([]string{http.MethodOptions, http.MethodPost}, ", ")

// SendOrder serves /api/send-order: OPTIONS is an empty 200, POST relays the
// quote request by email, anything else is a 405.
func SendOrder(svc relay.Service, m *metrics.RelayMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
			return
		case http.MethodPost:
		default:
			w.Header().Set("Allow", sendOrderAllow)
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, r.Method))
			return
		}

		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "relay service unavailable"))
			return
		}

		var body types.OrderRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			m.IncRequest("invalid")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Relay(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"quote_ref":         result.Reference,
				"confirmation_sent": result.ConfirmationSent,
			})
			logg.Info(ctx, "quote.relayed")
		}
		responses.WriteSuccess(w, sendOrderSuccessMessage)
	}
}
