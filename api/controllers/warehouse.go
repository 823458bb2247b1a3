package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/karyatex/konveksi-backend/api/responses"
	"github.com/karyatex/konveksi-backend/api/validators"
	"github.com/karyatex/konveksi-backend/internal/warehouse"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/logger"
)

type createMaterialRequest struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Unit     string `json:"unit" validate:"required"`
}

func MaterialCreate(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createMaterialRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := enums.ParseMaterialCategory(body.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid material category"))
			return
		}
		unit, err := enums.ParseMaterialUnit(body.Unit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid material unit"))
			return
		}
		material, err := svc.CreateMaterial(r.Context(), warehouse.MaterialInput{
			Code:     body.Code,
			Name:     body.Name,
			Category: category,
			Unit:     unit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, material)
	}
}

func MaterialGet(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "materialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		material, err := svc.GetMaterial(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, material)
	}
}

func MaterialList(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListMaterials(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type supplierRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func SupplierCreate(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body supplierRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplier, err := svc.CreateSupplier(r.Context(), warehouse.SupplierInput{
			Name:    body.Name,
			Phone:   body.Phone,
			Address: body.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

func SupplierList(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListSuppliers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type purchaseOrderItemRequest struct {
	MaterialID uuid.UUID `json:"material_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"gte=1"`
}

type createPurchaseOrderRequest struct {
	Number     string                     `json:"number" validate:"required"`
	SupplierID uuid.UUID                  `json:"supplier_id" validate:"required"`
	Items      []purchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	OrderedAt  time.Time                  `json:"ordered_at" validate:"required"`
}

func PurchaseOrderCreate(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createPurchaseOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := warehouse.PurchaseOrderInput{
			Number:     body.Number,
			SupplierID: body.SupplierID,
			OrderedAt:  body.OrderedAt,
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, warehouse.PurchaseOrderItemInput{
				MaterialID: item.MaterialID,
				Quantity:   item.Quantity,
			})
		}
		po, err := svc.CreatePurchaseOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, po)
	}
}

func PurchaseOrderGet(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "purchaseOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		po, err := svc.GetPurchaseOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, po)
	}
}

func PurchaseOrderList(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListPurchaseOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type receiveRequest struct {
	PurchaseOrderID *uuid.UUID `json:"purchase_order_id,omitempty"`
	MaterialID      uuid.UUID  `json:"material_id" validate:"required"`
	Quantity        int        `json:"quantity" validate:"gte=1"`
	ReceivedAt      time.Time  `json:"received_at" validate:"required"`
	Note            *string    `json:"note,omitempty"`
}

// WarehouseReceive books material intake into the movement ledger.
func WarehouseReceive(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body receiveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receiving, err := svc.Receive(r.Context(), warehouse.ReceiveInput{
			PurchaseOrderID: body.PurchaseOrderID,
			MaterialID:      body.MaterialID,
			Quantity:        body.Quantity,
			ReceivedAt:      body.ReceivedAt,
			Note:            body.Note,
			CreatedBy:       actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receiving)
	}
}

type issueRequest struct {
	MaterialID uuid.UUID  `json:"material_id" validate:"required"`
	ForecastID *uuid.UUID `json:"forecast_id,omitempty"`
	Quantity   int        `json:"quantity" validate:"gte=1"`
	IssuedAt   time.Time  `json:"issued_at" validate:"required"`
	Note       *string    `json:"note,omitempty"`
}

// WarehouseIssue hands material out to production; the service rejects an
// issue larger than the on-hand balance.
func WarehouseIssue(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body issueRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		issuing, err := svc.Issue(r.Context(), warehouse.IssueInput{
			MaterialID: body.MaterialID,
			ForecastID: body.ForecastID,
			Quantity:   body.Quantity,
			IssuedAt:   body.IssuedAt,
			Note:       body.Note,
			CreatedBy:  actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, issuing)
	}
}

type opnameRequest struct {
	MaterialID    uuid.UUID `json:"material_id" validate:"required"`
	PhysicalCount int       `json:"physical_count" validate:"gte=0"`
	CountedAt     time.Time `json:"counted_at" validate:"required"`
	Note          *string   `json:"note,omitempty"`
}

// WarehouseOpname reconciles a physical count against the computed balance.
func WarehouseOpname(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body opnameRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		opname, err := svc.Opname(r.Context(), warehouse.OpnameInput{
			MaterialID:    body.MaterialID,
			PhysicalCount: body.PhysicalCount,
			CountedAt:     body.CountedAt,
			Note:          body.Note,
			CreatedBy:     actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, opname)
	}
}

func WarehouseStockLevel(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		materialID, err := parseUUIDParam(r, "materialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		level, err := svc.StockLevel(r.Context(), materialID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"stock_level": level})
	}
}

// WarehouseStockCard returns the movement ledger with running balances.
func WarehouseStockCard(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		materialID, err := parseUUIDParam(r, "materialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
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
		card, err := svc.StockCard(r.Context(), materialID, warehouse.MovementFilter{From: from, To: to})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, card)
	}
}
