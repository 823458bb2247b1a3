package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karyatex/konveksi-backend/api/responses"
	"github.com/karyatex/konveksi-backend/api/validators"
	"github.com/karyatex/konveksi-backend/internal/orders"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/logger"
)

type orderLineRequest struct {
	ProductID     uuid.UUID  `json:"product_id" validate:"required"`
	FabricTypeID  uuid.UUID  `json:"fabric_type_id" validate:"required"`
	VariantTypeID *uuid.UUID `json:"variant_type_id,omitempty"`
	Quantity      int        `json:"quantity" validate:"gte=1"`
}

type extraCostRequest struct {
	CostType string          `json:"cost_type" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Note     *string         `json:"note,omitempty"`
}

type createKonveksiOrderRequest struct {
	CustomerID     uuid.UUID          `json:"customer_id" validate:"required"`
	ConvectionName string             `json:"convection_name" validate:"required"`
	Items          []orderLineRequest `json:"items" validate:"required,min=1,dive"`
	ExtraCosts     []extraCostRequest `json:"extra_costs,omitempty" validate:"omitempty,dive"`
	DeliveryDate   *time.Time         `json:"delivery_date,omitempty"`
}

// OrderCreateKonveksi prices and persists a konveksi order plus its invoice.
func OrderCreateKonveksi(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createKonveksiOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.KonveksiInput{
			CustomerID:     body.CustomerID,
			ConvectionName: body.ConvectionName,
			DeliveryDate:   body.DeliveryDate,
			CreatedBy:      actorID(r),
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, orders.LineItemInput{
				ProductID:     item.ProductID,
				FabricTypeID:  item.FabricTypeID,
				VariantTypeID: item.VariantTypeID,
				Quantity:      item.Quantity,
			})
		}
		for _, cost := range body.ExtraCosts {
			costType, err := enums.ParseExtraCostType(cost.CostType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid extra cost type"))
				return
			}
			input.ExtraCosts = append(input.ExtraCosts, orders.ExtraCostInput{
				CostType: costType,
				Amount:   cost.Amount,
				Note:     cost.Note,
			})
		}

		result, err := svc.CreateKonveksi(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type createMarketplaceOrderRequest struct {
	BuyerName             string    `json:"buyer_name" validate:"required"`
	Marketplace           string    `json:"marketplace" validate:"required"`
	MarketplaceOrderNo    string    `json:"marketplace_order_no" validate:"required"`
	OrderChoice           string    `json:"order_choice" validate:"required"`
	EstimatedShippingDate time.Time `json:"estimated_shipping_date" validate:"required"`
	Quantity              int       `json:"quantity" validate:"gte=1"`
}

func OrderCreateMarketplace(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createMarketplaceOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.CreateMarketplace(r.Context(), orders.MarketplaceInput{
			BuyerName:             body.BuyerName,
			Marketplace:           body.Marketplace,
			MarketplaceOrderNo:    body.MarketplaceOrderNo,
			OrderChoice:           body.OrderChoice,
			EstimatedShippingDate: body.EstimatedShippingDate,
			Quantity:              body.Quantity,
			CreatedBy:             actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := orders.ListFilter{}
		if raw := r.URL.Query().Get("type"); raw != "" {
			orderType, err := enums.ParseOrderType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type"))
				return
			}
			filter.OrderType = orderType
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status"))
				return
			}
			filter.Status = status
		}

		list, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type advanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderAdvanceStatus moves an order one step along its status chain.
func OrderAdvanceStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body advanceStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status"))
			return
		}
		order, err := svc.AdvanceStatus(r.Context(), id, next)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderGarmentEquivalents reports the order quantity normalized to garment
// units, weighted per variant unit.
func OrderGarmentEquivalents(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		total, err := svc.GarmentEquivalents(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"garment_equivalents": total})
	}
}
