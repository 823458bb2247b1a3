package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/db"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

type verificationRepository interface {
	CreatePrint(ctx context.Context, row *models.PrintVerification) error
	FindPrintByForecast(ctx context.Context, forecastID uuid.UUID) (*models.PrintVerification, error)
	CreateQCLine(ctx context.Context, row *models.QCLineVerification) error
	FindQCLineByForecast(ctx context.Context, forecastID uuid.UUID) (*models.QCLineVerification, error)
	CreateQCCutting(ctx context.Context, row *models.QCCuttingVerification) error
	FindQCCuttingByForecast(ctx context.Context, forecastID uuid.UUID) (*models.QCCuttingVerification, error)
	CreateQCFinishing(ctx context.Context, row *models.QCFinishing) error
	FindQCFinishingByForecast(ctx context.Context, forecastID uuid.UUID) (*models.QCFinishing, error)
	CreateQCFinishingDefect(ctx context.Context, row *models.QCFinishingDefect) error
	FindQCFinishingDefectByForecast(ctx context.Context, forecastID uuid.UUID) (*models.QCFinishingDefect, error)
	CreateWarehouseDelivery(ctx context.Context, row *models.WarehouseDelivery) error
	FindWarehouseDeliveryByForecast(ctx context.Context, forecastID uuid.UUID) (*models.WarehouseDelivery, error)
	CreateWarehouseReceipt(ctx context.Context, row *models.WarehouseReceipt) error
	FindWarehouseReceiptByForecast(ctx context.Context, forecastID uuid.UUID) (*models.WarehouseReceipt, error)
}

type forecastsReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Forecast, error)
}

// Service records checkpoint submissions. Every category takes at most one
// record per forecast; duplicates conflict.
type Service interface {
	SubmitPrint(ctx context.Context, input PrintInput) (*models.PrintVerification, error)
	SubmitQCLine(ctx context.Context, input QCInput) (*models.QCLineVerification, error)
	SubmitQCCutting(ctx context.Context, input QCInput) (*models.QCCuttingVerification, error)
	SubmitQCFinishing(ctx context.Context, input FinishingInput) (*models.QCFinishing, error)
	SubmitQCFinishingDefect(ctx context.Context, input FinishingDefectInput) (*models.QCFinishingDefect, error)
	SubmitWarehouseDelivery(ctx context.Context, input WarehouseInput) (*models.WarehouseDelivery, error)
	SubmitWarehouseReceipt(ctx context.Context, input WarehouseInput) (*models.WarehouseReceipt, error)

	GetPrint(ctx context.Context, forecastID uuid.UUID) (*models.PrintVerification, error)
	GetQCLine(ctx context.Context, forecastID uuid.UUID) (*models.QCLineVerification, error)
	GetQCCutting(ctx context.Context, forecastID uuid.UUID) (*models.QCCuttingVerification, error)
	GetQCFinishing(ctx context.Context, forecastID uuid.UUID) (*models.QCFinishing, error)
	GetQCFinishingDefect(ctx context.Context, forecastID uuid.UUID) (*models.QCFinishingDefect, error)
	GetWarehouseDelivery(ctx context.Context, forecastID uuid.UUID) (*models.WarehouseDelivery, error)
	GetWarehouseReceipt(ctx context.Context, forecastID uuid.UUID) (*models.WarehouseReceipt, error)
}

type service struct {
	repo      verificationRepository
	forecasts forecastsReader
	now       func() time.Time
	newCode   func() string
}

// PrintInput submits the print checkpoint.
type PrintInput struct {
	ForecastID  uuid.UUID
	Approved    bool
	RejectedQty int
	Note        *string
	FinishedAt  *time.Time
	CreatedBy   *uuid.UUID
}

// QCInput submits a line or cutting QC checkpoint.
type QCInput struct {
	ForecastID  uuid.UUID
	DefectArea  *enums.DefectArea
	DefectNote  *string
	RejectedQty int
	CreatedBy   *uuid.UUID
}

// FinishingInput submits the finishing intake count.
type FinishingInput struct {
	ForecastID        uuid.UUID
	ReceivedQty       int
	RealizationStatus enums.RealizationStatus
	CreatedBy         *uuid.UUID
}

// FinishingDefectInput submits defects found at finishing.
type FinishingDefectInput struct {
	ForecastID uuid.UUID
	DefectQty  int
	Note       *string
	CreatedBy  *uuid.UUID
}

// WarehouseInput submits a delivery or receipt checkpoint.
type WarehouseInput struct {
	ForecastID uuid.UUID
	Quantity   int
	At         time.Time
	CreatedBy  *uuid.UUID
}

// NewService builds the verification service.
func NewService(repo verificationRepository, forecasts forecastsReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("verification repository required")
	}
	if forecasts == nil {
		return nil, fmt.Errorf("forecast reader required")
	}
	return &service{
		repo:      repo,
		forecasts: forecasts,
		now:       time.Now,
		newCode:   NewVerificationCode,
	}, nil
}

func (s *service) requireForecast(ctx context.Context, forecastID uuid.UUID) error {
	if forecastID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "forecast_id is required")
	}
	if _, err := s.forecasts.FindByID(ctx, forecastID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "forecast not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup forecast")
	}
	return nil
}

func submitErr(err error, constraint, checkpoint string) error {
	if db.IsUniqueViolation(err, constraint) {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("%s already recorded for this forecast", checkpoint))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create "+checkpoint)
}

func (s *service) SubmitPrint(ctx context.Context, input PrintInput) (*models.PrintVerification, error) {
	if err := s.requireForecast(ctx, input.ForecastID); err != nil {
		return nil, err
	}
	if input.RejectedQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejected_qty must not be negative")
	}
	row := &models.PrintVerification{
		ForecastID:  input.ForecastID,
		Approved:    input.Approved,
		RejectedQty: input.RejectedQty,
		Note:        input.Note,
		FinishedAt:  input.FinishedAt,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.repo.CreatePrint(ctx, row); err != nil {
		return nil, submitErr(err, "print_verifications_forecast_id_key", "print verification")
	}
	return row, nil
}

func (s *service) SubmitQCLine(ctx context.Context, input QCInput) (*models.QCLineVerification, error) {
	if err := s.validateQC(ctx, input); err != nil {
		return nil, err
	}
	row := &models.QCLineVerification{
		ForecastID:  input.ForecastID,
		DefectArea:  input.DefectArea,
		DefectNote:  input.DefectNote,
		RejectedQty: input.RejectedQty,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.repo.CreateQCLine(ctx, row); err != nil {
		return nil, submitErr(err, "qc_line_verifications_forecast_id_key", "QC line verification")
	}
	return row, nil
}

func (s *service) SubmitQCCutting(ctx context.Context, input QCInput) (*models.QCCuttingVerification, error) {
	if err := s.validateQC(ctx, input); err != nil {
		return nil, err
	}
	row := &models.QCCuttingVerification{
		ForecastID:  input.ForecastID,
		DefectArea:  input.DefectArea,
		DefectNote:  input.DefectNote,
		RejectedQty: input.RejectedQty,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.repo.CreateQCCutting(ctx, row); err != nil {
		return nil, submitErr(err, "qc_cutting_verifications_forecast_id_key", "QC cutting verification")
	}
	return row, nil
}

func (s *service) validateQC(ctx context.Context, input QCInput) error {
	if err := s.requireForecast(ctx, input.ForecastID); err != nil {
		return err
	}
	if input.DefectArea != nil && !input.DefectArea.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid defect area")
	}
	if input.RejectedQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rejected_qty must not be negative")
	}
	return nil
}

func (s *service) SubmitQCFinishing(ctx context.Context, input FinishingInput) (*models.QCFinishing, error) {
	if err := s.requireForecast(ctx, input.ForecastID); err != nil {
		return nil, err
	}
	if input.ReceivedQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "received_qty must not be negative")
	}
	if !input.RealizationStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid realization status")
	}
	row := &models.QCFinishing{
		ForecastID:        input.ForecastID,
		ReceivedQty:       input.ReceivedQty,
		RealizationStatus: input.RealizationStatus,
		VerificationCode:  s.newCode(),
		CreatedBy:         input.CreatedBy,
	}
	if err := s.repo.CreateQCFinishing(ctx, row); err != nil {
		return nil, submitErr(err, "qc_finishings_forecast_id_key", "QC finishing")
	}
	return row, nil
}

func (s *service) SubmitQCFinishingDefect(ctx context.Context, input FinishingDefectInput) (*models.QCFinishingDefect, error) {
	if err := s.requireForecast(ctx, input.ForecastID); err != nil {
		return nil, err
	}
	if input.DefectQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "defect_qty must not be negative")
	}
	row := &models.QCFinishingDefect{
		ForecastID: input.ForecastID,
		DefectQty:  input.DefectQty,
		Note:       input.Note,
		CreatedBy:  input.CreatedBy,
	}
	if err := s.repo.CreateQCFinishingDefect(ctx, row); err != nil {
		return nil, submitErr(err, "qc_finishing_defects_forecast_id_key", "QC finishing defect")
	}
	return row, nil
}

func (s *service) SubmitWarehouseDelivery(ctx context.Context, input WarehouseInput) (*models.WarehouseDelivery, error) {
	if err := s.validateWarehouse(ctx, &input); err != nil {
		return nil, err
	}
	row := &models.WarehouseDelivery{
		ForecastID:  input.ForecastID,
		Quantity:    input.Quantity,
		DeliveredAt: input.At,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.repo.CreateWarehouseDelivery(ctx, row); err != nil {
		return nil, submitErr(err, "warehouse_deliveries_forecast_id_key", "warehouse delivery")
	}
	return row, nil
}

func (s *service) SubmitWarehouseReceipt(ctx context.Context, input WarehouseInput) (*models.WarehouseReceipt, error) {
	if err := s.validateWarehouse(ctx, &input); err != nil {
		return nil, err
	}
	row := &models.WarehouseReceipt{
		ForecastID: input.ForecastID,
		Quantity:   input.Quantity,
		ReceivedAt: input.At,
		CreatedBy:  input.CreatedBy,
	}
	if err := s.repo.CreateWarehouseReceipt(ctx, row); err != nil {
		return nil, submitErr(err, "warehouse_receipts_forecast_id_key", "warehouse receipt")
	}
	return row, nil
}

func (s *service) validateWarehouse(ctx context.Context, input *WarehouseInput) error {
	if err := s.requireForecast(ctx, input.ForecastID); err != nil {
		return err
	}
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.At.IsZero() {
		input.At = s.now()
	}
	return nil
}

func getErr(err error, checkpoint string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, checkpoint+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup "+checkpoint)
}

func (s *service) GetPrint(ctx context.Context, forecastID uuid.UUID) (*models.PrintVerification, error) {
	row, err := s.repo.FindPrintByForecast(ctx, forecastID)
	if err != nil {
		return nil, getErr(err, "print verification")
	}
	return row, nil
}

func (s *service) GetQCLine(ctx context.Context, forecastID uuid.UUID) (*models.QCLineVerification, error) {
	row, err := s.repo.FindQCLineByForecast(ctx, forecastID)
	if err != nil {
		return nil, getErr(err, "QC line verification")
	}
	return row, nil
}

func (s *service) GetQCCutting(ctx context.Context, forecastID uuid.UUID) (*models.QCCuttingVerification, error) {
	row, err := s.repo.FindQCCuttingByForecast(ctx, forecastID)
	if err != nil {
		return nil, getErr(err, "QC cutting verification")
	}
	return row, nil
}

func (s *service) GetQCFinishing(ctx context.Context, forecastID uuid.UUID) (*models.QCFinishing, error) {
	row, err := s.repo.FindQCFinishingByForecast(ctx, forecastID)
	if err != nil {
		return nil, getErr(err, "QC finishing")
	}
	return row, nil
}

func (s *service) GetQCFinishingDefect(ctx context.Context, forecastID uuid.UUID) (*models.QCFinishingDefect, error) {
	row, err := s.repo.FindQCFinishingDefectByForecast(ctx, forecastID)
	if err != nil {
		return nil, getErr(err, "QC finishing defect")
	}
	return row, nil
}

func (s *service) GetWarehouseDelivery(ctx context.Context, forecastID uuid.UUID) (*models.WarehouseDelivery, error) {
	row, err := s.repo.FindWarehouseDeliveryByForecast(ctx, forecastID)
	if err != nil {
		return nil, getErr(err, "warehouse delivery")
	}
	return row, nil
}

func (s *service) GetWarehouseReceipt(ctx context.Context, forecastID uuid.UUID) (*models.WarehouseReceipt, error) {
	row, err := s.repo.FindWarehouseReceiptByForecast(ctx, forecastID)
	if err != nil {
		return nil, getErr(err, "warehouse receipt")
	}
	return row, nil
}
