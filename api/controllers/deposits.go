package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karyatex/konveksi-backend/api/responses"
	"github.com/karyatex/konveksi-backend/api/validators"
	"github.com/karyatex/konveksi-backend/internal/deposits"
	"github.com/karyatex/konveksi-backend/pkg/logger"
)

type depositItemRequest struct {
	ProductID     uuid.UUID  `json:"product_id" validate:"required"`
	FabricTypeID  uuid.UUID  `json:"fabric_type_id" validate:"required"`
	VariantTypeID *uuid.UUID `json:"variant_type_id,omitempty"`
	Quantity      int        `json:"quantity" validate:"gte=1"`
}

type createDepositRequest struct {
	OrderID   uuid.UUID            `json:"order_id" validate:"required"`
	Amount    decimal.Decimal      `json:"amount" validate:"required"`
	ExpiresAt *time.Time           `json:"expires_at,omitempty"`
	Items     []depositItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
}

// DepositCreate records a down payment against an order.
func DepositCreate(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createDepositRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := deposits.CreateInput{
			OrderID:   body.OrderID,
			Amount:    body.Amount,
			ExpiresAt: body.ExpiresAt,
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, deposits.ItemInput{
				ProductID:     item.ProductID,
				FabricTypeID:  item.FabricTypeID,
				VariantTypeID: item.VariantTypeID,
				Quantity:      item.Quantity,
			})
		}

		deposit, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, deposit)
	}
}

func DepositGet(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "depositId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deposit, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deposit)
	}
}

func DepositListForOrder(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListForOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func DepositMarkPaidOff(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "depositId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deposit, err := svc.MarkPaidOff(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deposit)
	}
}

func DepositMarkReminderSent(svc deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "depositId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deposit, err := svc.MarkReminderSent(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deposit)
	}
}
