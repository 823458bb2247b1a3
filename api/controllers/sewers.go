package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/karyatex/konveksi-backend/api/responses"
	"github.com/karyatex/konveksi-backend/api/validators"
	"github.com/karyatex/konveksi-backend/internal/sewers"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/logger"
)

type sewerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func SewerCreate(svc sewers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body sewerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sewer, err := svc.CreateSewer(r.Context(), sewers.SewerInput{
			Name:    body.Name,
			Phone:   body.Phone,
			Address: body.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sewer)
	}
}

func SewerGet(svc sewers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "sewerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sewer, err := svc.GetSewer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sewer)
	}
}

func SewerList(svc sewers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListSewers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func SewerUpdate(svc sewers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "sewerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body sewerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sewer, err := svc.UpdateSewer(r.Context(), id, sewers.SewerInput{
			Name:    body.Name,
			Phone:   body.Phone,
			Address: body.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sewer)
	}
}

type distributionRequest struct {
	ForecastID  uuid.UUID `json:"forecast_id" validate:"required"`
	SewerID     uuid.UUID `json:"sewer_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"gte=1"`
	Accessories []string  `json:"accessories,omitempty"`
}

// SewerDistribute hands a slice of forecast quantity to one sewer and mints
// the tracking code.
func SewerDistribute(svc sewers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body distributionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		distribution, err := svc.Distribute(r.Context(), sewers.DistributionInput{
			ForecastID:  body.ForecastID,
			SewerID:     body.SewerID,
			Quantity:    body.Quantity,
			Accessories: body.Accessories,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, distribution)
	}
}

func SewerGetDistribution(svc sewers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "distributionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		distribution, err := svc.GetDistribution(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, distribution)
	}
}

// SewerTrackDistribution resolves a distribution by its public tracking code.
func SewerTrackDistribution(svc sewers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := urlParam(r, "trackingCode")
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tracking code is required"))
			return
		}
		distribution, err := svc.TrackDistribution(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, distribution)
	}
}

func SewerListDistributionsForForecast(svc sewers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forecastID, err := parseUUIDParam(r, "forecastId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListDistributionsForForecast(r.Context(), forecastID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
