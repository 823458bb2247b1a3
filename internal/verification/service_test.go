package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

type fakeVerificationRepo struct {
	prints     map[uuid.UUID]*models.PrintVerification
	qcLines    map[uuid.UUID]*models.QCLineVerification
	qcCuttings map[uuid.UUID]*models.QCCuttingVerification
	finishings map[uuid.UUID]*models.QCFinishing
	defects    map[uuid.UUID]*models.QCFinishingDefect
	deliveries map[uuid.UUID]*models.WarehouseDelivery
	receipts   map[uuid.UUID]*models.WarehouseReceipt
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{
		prints:     make(map[uuid.UUID]*models.PrintVerification),
		qcLines:    make(map[uuid.UUID]*models.QCLineVerification),
		qcCuttings: make(map[uuid.UUID]*models.QCCuttingVerification),
		finishings: make(map[uuid.UUID]*models.QCFinishing),
		defects:    make(map[uuid.UUID]*models.QCFinishingDefect),
		deliveries: make(map[uuid.UUID]*models.WarehouseDelivery),
		receipts:   make(map[uuid.UUID]*models.WarehouseReceipt),
	}
}

func uniqueErr(constraint string) error {
	return errors.New(`duplicate key value violates unique constraint "` + constraint + `"`)
}

func (f *fakeVerificationRepo) CreatePrint(_ context.Context, row *models.PrintVerification) error {
	if _, exists := f.prints[row.ForecastID]; exists {
		return uniqueErr("print_verifications_forecast_id_key")
	}
	row.ID = uuid.New()
	f.prints[row.ForecastID] = row
	return nil
}

func (f *fakeVerificationRepo) FindPrintByForecast(_ context.Context, forecastID uuid.UUID) (*models.PrintVerification, error) {
	if row, ok := f.prints[forecastID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVerificationRepo) CreateQCLine(_ context.Context, row *models.QCLineVerification) error {
	if _, exists := f.qcLines[row.ForecastID]; exists {
		return uniqueErr("qc_line_verifications_forecast_id_key")
	}
	row.ID = uuid.New()
	f.qcLines[row.ForecastID] = row
	return nil
}

func (f *fakeVerificationRepo) FindQCLineByForecast(_ context.Context, forecastID uuid.UUID) (*models.QCLineVerification, error) {
	if row, ok := f.qcLines[forecastID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVerificationRepo) CreateQCCutting(_ context.Context, row *models.QCCuttingVerification) error {
	if _, exists := f.qcCuttings[row.ForecastID]; exists {
		return uniqueErr("qc_cutting_verifications_forecast_id_key")
	}
	row.ID = uuid.New()
	f.qcCuttings[row.ForecastID] = row
	return nil
}

func (f *fakeVerificationRepo) FindQCCuttingByForecast(_ context.Context, forecastID uuid.UUID) (*models.QCCuttingVerification, error) {
	if row, ok := f.qcCuttings[forecastID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVerificationRepo) CreateQCFinishing(_ context.Context, row *models.QCFinishing) error {
	if _, exists := f.finishings[row.ForecastID]; exists {
		return uniqueErr("qc_finishings_forecast_id_key")
	}
	row.ID = uuid.New()
	f.finishings[row.ForecastID] = row
	return nil
}

func (f *fakeVerificationRepo) FindQCFinishingByForecast(_ context.Context, forecastID uuid.UUID) (*models.QCFinishing, error) {
	if row, ok := f.finishings[forecastID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVerificationRepo) CreateQCFinishingDefect(_ context.Context, row *models.QCFinishingDefect) error {
	if _, exists := f.defects[row.ForecastID]; exists {
		return uniqueErr("qc_finishing_defects_forecast_id_key")
	}
	row.ID = uuid.New()
	f.defects[row.ForecastID] = row
	return nil
}

func (f *fakeVerificationRepo) FindQCFinishingDefectByForecast(_ context.Context, forecastID uuid.UUID) (*models.QCFinishingDefect, error) {
	if row, ok := f.defects[forecastID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVerificationRepo) CreateWarehouseDelivery(_ context.Context, row *models.WarehouseDelivery) error {
	if _, exists := f.deliveries[row.ForecastID]; exists {
		return uniqueErr("warehouse_deliveries_forecast_id_key")
	}
	row.ID = uuid.New()
	f.deliveries[row.ForecastID] = row
	return nil
}

func (f *fakeVerificationRepo) FindWarehouseDeliveryByForecast(_ context.Context, forecastID uuid.UUID) (*models.WarehouseDelivery, error) {
	if row, ok := f.deliveries[forecastID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVerificationRepo) CreateWarehouseReceipt(_ context.Context, row *models.WarehouseReceipt) error {
	if _, exists := f.receipts[row.ForecastID]; exists {
		return uniqueErr("warehouse_receipts_forecast_id_key")
	}
	row.ID = uuid.New()
	f.receipts[row.ForecastID] = row
	return nil
}

func (f *fakeVerificationRepo) FindWarehouseReceiptByForecast(_ context.Context, forecastID uuid.UUID) (*models.WarehouseReceipt, error) {
	if row, ok := f.receipts[forecastID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubForecasts struct {
	known map[uuid.UUID]bool
}

func (s *stubForecasts) FindByID(_ context.Context, id uuid.UUID) (*models.Forecast, error) {
	if s.known[id] {
		return &models.Forecast{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestVerificationService(t *testing.T) (Service, *fakeVerificationRepo, uuid.UUID) {
	t.Helper()
	repo := newFakeVerificationRepo()
	forecastID := uuid.New()
	forecasts := &stubForecasts{known: map[uuid.UUID]bool{forecastID: true}}
	svc, err := NewService(repo, forecasts)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.(*service).newCode = func() string { return "AB12CD34" }
	svc.(*service).now = func() time.Time {
		return time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo, forecastID
}

func TestSubmitPrintOncePerForecast(t *testing.T) {
	svc, _, forecastID := newTestVerificationService(t)

	row, err := svc.SubmitPrint(context.Background(), PrintInput{
		ForecastID:  forecastID,
		Approved:    true,
		RejectedQty: 2,
	})
	if err != nil {
		t.Fatalf("SubmitPrint: %v", err)
	}
	if !row.Approved || row.RejectedQty != 2 {
		t.Fatalf("unexpected row %+v", row)
	}

	_, err = svc.SubmitPrint(context.Background(), PrintInput{ForecastID: forecastID})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate submission, got %v", err)
	}
}

func TestSubmitRejectsUnknownForecast(t *testing.T) {
	svc, _, _ := newTestVerificationService(t)

	_, err := svc.SubmitQCLine(context.Background(), QCInput{ForecastID: uuid.New()})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitQCLineValidation(t *testing.T) {
	svc, _, forecastID := newTestVerificationService(t)

	badArea := enums.DefectArea("embroidery")
	_, err := svc.SubmitQCLine(context.Background(), QCInput{
		ForecastID: forecastID,
		DefectArea: &badArea,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad defect area, got %v", err)
	}

	_, err = svc.SubmitQCLine(context.Background(), QCInput{
		ForecastID:  forecastID,
		RejectedQty: -1,
	})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative rejects, got %v", err)
	}

	area := enums.DefectAreaStitching
	row, err := svc.SubmitQCLine(context.Background(), QCInput{
		ForecastID:  forecastID,
		DefectArea:  &area,
		RejectedQty: 3,
	})
	if err != nil {
		t.Fatalf("SubmitQCLine: %v", err)
	}
	if *row.DefectArea != enums.DefectAreaStitching {
		t.Fatalf("unexpected defect area %v", row.DefectArea)
	}
}

func TestSubmitQCFinishingGeneratesCode(t *testing.T) {
	svc, _, forecastID := newTestVerificationService(t)

	row, err := svc.SubmitQCFinishing(context.Background(), FinishingInput{
		ForecastID:        forecastID,
		ReceivedQty:       48,
		RealizationStatus: enums.RealizationStatusKurang,
	})
	if err != nil {
		t.Fatalf("SubmitQCFinishing: %v", err)
	}
	if row.VerificationCode != "AB12CD34" {
		t.Fatalf("verification code = %q", row.VerificationCode)
	}

	_, err = svc.SubmitQCFinishing(context.Background(), FinishingInput{
		ForecastID:        forecastID,
		ReceivedQty:       1,
		RealizationStatus: enums.RealizationStatus("lebih"),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad status, got %v", err)
	}
}

func TestNewVerificationCodeShape(t *testing.T) {
	code := NewVerificationCode()
	if len(code) != 8 {
		t.Fatalf("code %q, want 8 chars", code)
	}
	for _, r := range code {
		if r >= 'a' && r <= 'z' {
			t.Fatalf("code %q not uppercased", code)
		}
	}
}

func TestSubmitWarehouseDefaultsTimestamp(t *testing.T) {
	svc, _, forecastID := newTestVerificationService(t)

	row, err := svc.SubmitWarehouseDelivery(context.Background(), WarehouseInput{
		ForecastID: forecastID,
		Quantity:   50,
	})
	if err != nil {
		t.Fatalf("SubmitWarehouseDelivery: %v", err)
	}
	want := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	if !row.DeliveredAt.Equal(want) {
		t.Fatalf("delivered_at = %v, want %v", row.DeliveredAt, want)
	}

	_, err = svc.SubmitWarehouseReceipt(context.Background(), WarehouseInput{
		ForecastID: forecastID,
		Quantity:   0,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc, _, forecastID := newTestVerificationService(t)

	_, err := svc.GetQCFinishingDefect(context.Background(), forecastID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
