package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/karyatex/konveksi-backend/api/responses"
	"github.com/karyatex/konveksi-backend/api/validators"
	"github.com/karyatex/konveksi-backend/internal/forecasts"
	"github.com/karyatex/konveksi-backend/internal/progress"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/logger"
)

type forecastSizeRequest struct {
	Size     string `json:"size" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

type createForecastRequest struct {
	// Exactly one of the three source groups is expected; the service
	// rejects mixed input.
	ProductID    *uuid.UUID            `json:"product_id,omitempty"`
	FabricTypeID *uuid.UUID            `json:"fabric_type_id,omitempty"`
	Sizes        []forecastSizeRequest `json:"sizes,omitempty" validate:"omitempty,dive"`
	OrderItemID  *uuid.UUID            `json:"order_item_id,omitempty"`
	OrderID      *uuid.UUID            `json:"order_id,omitempty"`
	PONumber     *string               `json:"po_number,omitempty"`
	Note         *string               `json:"note,omitempty"`
}

// ForecastCreate dispatches on the request shape: stock batch, single order
// item, or whole marketplace order.
func ForecastCreate(svc forecasts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createForecastRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor := actorID(r)

		switch {
		case body.OrderItemID != nil:
			forecast, err := svc.CreateFromOrderItem(r.Context(), forecasts.OrderItemInput{
				OrderItemID: *body.OrderItemID,
				PONumber:    body.PONumber,
				Note:        body.Note,
				Actor:       actor,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, forecast)
		case body.OrderID != nil:
			forecast, err := svc.CreateFromOrder(r.Context(), forecasts.OrderInput{
				OrderID:  *body.OrderID,
				PONumber: body.PONumber,
				Note:     body.Note,
				Actor:    actor,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, forecast)
		case body.ProductID != nil && body.FabricTypeID != nil:
			input := forecasts.StockInput{
				ProductID:    *body.ProductID,
				FabricTypeID: *body.FabricTypeID,
				PONumber:     body.PONumber,
				Note:         body.Note,
				Actor:        actor,
			}
			for _, size := range body.Sizes {
				input.Sizes = append(input.Sizes, forecasts.SizeInput{
					Size:     size.Size,
					Quantity: size.Quantity,
				})
			}
			forecast, err := svc.CreateFromStock(r.Context(), input)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, forecast)
		default:
			err := pkgerrors.New(pkgerrors.CodeValidation, "provide order_item_id, order_id, or product_id with fabric_type_id")
			responses.WriteError(r.Context(), logg, w, err)
		}
	}
}

func ForecastGet(svc forecasts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "forecastId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		forecast, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, forecast)
	}
}

func ForecastList(svc forecasts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := forecasts.ListFilter{}
		if raw := r.URL.Query().Get("origin"); raw != "" {
			origin, err := enums.ParseForecastOrigin(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid forecast origin"))
				return
			}
			filter.Origin = origin
		}
		from, err := parseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := parseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.From, filter.To = from, to

		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ForecastSizes(svc forecasts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "forecastId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sizes, err := svc.Sizes(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sizes)
	}
}

func ForecastMarkEstimateSent(svc forecasts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "forecastId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		forecast, err := svc.MarkEstimateSent(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, forecast)
	}
}

// ForecastProgress reports the furthest production checkpoint a forecast has
// cleared.
func ForecastProgress(resolver *progress.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "progress resolver unavailable"))
			return
		}
		id, err := parseUUIDParam(r, "forecastId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stage, err := resolver.ForForecast(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"progress": stage})
	}
}
