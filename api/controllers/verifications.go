package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/karyatex/konveksi-backend/api/responses"
	"github.com/karyatex/konveksi-backend/api/validators"
	"github.com/karyatex/konveksi-backend/internal/verification"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/logger"
)

type printVerificationRequest struct {
	ForecastID  uuid.UUID  `json:"forecast_id" validate:"required"`
	Approved    bool       `json:"approved"`
	RejectedQty int        `json:"rejected_qty" validate:"gte=0"`
	Note        *string    `json:"note,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

func VerificationSubmitPrint(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body printVerificationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.SubmitPrint(r.Context(), verification.PrintInput{
			ForecastID:  body.ForecastID,
			Approved:    body.Approved,
			RejectedQty: body.RejectedQty,
			Note:        body.Note,
			FinishedAt:  body.FinishedAt,
			CreatedBy:   actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

type qcVerificationRequest struct {
	ForecastID  uuid.UUID `json:"forecast_id" validate:"required"`
	DefectArea  *string   `json:"defect_area,omitempty"`
	DefectNote  *string   `json:"defect_note,omitempty"`
	RejectedQty int       `json:"rejected_qty" validate:"gte=0"`
}

func (req qcVerificationRequest) toInput(actor *uuid.UUID) (verification.QCInput, error) {
	input := verification.QCInput{
		ForecastID:  req.ForecastID,
		DefectNote:  req.DefectNote,
		RejectedQty: req.RejectedQty,
		CreatedBy:   actor,
	}
	if req.DefectArea != nil {
		area, err := enums.ParseDefectArea(*req.DefectArea)
		if err != nil {
			return verification.QCInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid defect area")
		}
		input.DefectArea = &area
	}
	return input, nil
}

func VerificationSubmitQCLine(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body qcVerificationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput(actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.SubmitQCLine(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func VerificationSubmitQCCutting(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body qcVerificationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput(actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.SubmitQCCutting(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

type qcFinishingRequest struct {
	ForecastID        uuid.UUID `json:"forecast_id" validate:"required"`
	ReceivedQty       int       `json:"received_qty" validate:"gte=0"`
	RealizationStatus string    `json:"realization_status" validate:"required"`
}

func VerificationSubmitQCFinishing(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body qcFinishingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseRealizationStatus(body.RealizationStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid realization status"))
			return
		}
		record, err := svc.SubmitQCFinishing(r.Context(), verification.FinishingInput{
			ForecastID:        body.ForecastID,
			ReceivedQty:       body.ReceivedQty,
			RealizationStatus: status,
			CreatedBy:         actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

type qcFinishingDefectRequest struct {
	ForecastID uuid.UUID `json:"forecast_id" validate:"required"`
	DefectQty  int       `json:"defect_qty" validate:"gte=1"`
	Note       *string   `json:"note,omitempty"`
}

func VerificationSubmitQCFinishingDefect(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body qcFinishingDefectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.SubmitQCFinishingDefect(r.Context(), verification.FinishingDefectInput{
			ForecastID: body.ForecastID,
			DefectQty:  body.DefectQty,
			Note:       body.Note,
			CreatedBy:  actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

type warehouseVerificationRequest struct {
	ForecastID uuid.UUID `json:"forecast_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"gte=1"`
	At         time.Time `json:"at" validate:"required"`
}

func VerificationSubmitWarehouseDelivery(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body warehouseVerificationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.SubmitWarehouseDelivery(r.Context(), verification.WarehouseInput{
			ForecastID: body.ForecastID,
			Quantity:   body.Quantity,
			At:         body.At,
			CreatedBy:  actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func VerificationSubmitWarehouseReceipt(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body warehouseVerificationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := svc.SubmitWarehouseReceipt(r.Context(), verification.WarehouseInput{
			ForecastID: body.ForecastID,
			Quantity:   body.Quantity,
			At:         body.At,
			CreatedBy:  actorID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// VerificationGetForForecast reads one checkpoint record by forecast, with
// the checkpoint chosen by the stage path parameter.
func VerificationGetForForecast(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forecastID, err := parseUUIDParam(r, "forecastId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var record any
		switch stage := urlParam(r, "stage"); stage {
		case "print":
			record, err = svc.GetPrint(r.Context(), forecastID)
		case "qc-line":
			record, err = svc.GetQCLine(r.Context(), forecastID)
		case "qc-cutting":
			record, err = svc.GetQCCutting(r.Context(), forecastID)
		case "qc-finishing":
			record, err = svc.GetQCFinishing(r.Context(), forecastID)
		case "qc-finishing-defect":
			record, err = svc.GetQCFinishingDefect(r.Context(), forecastID)
		case "warehouse-delivery":
			record, err = svc.GetWarehouseDelivery(r.Context(), forecastID)
		case "warehouse-receipt":
			record, err = svc.GetWarehouseReceipt(r.Context(), forecastID)
		default:
			err = pkgerrors.New(pkgerrors.CodeValidation, "unknown verification stage").
				WithDetails(map[string]any{"stage": stage})
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}
