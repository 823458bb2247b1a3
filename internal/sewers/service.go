package sewers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/db"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

type sewersRepository interface {
	CreateSewer(ctx context.Context, sewer *models.Sewer) error
	FindSewerByID(ctx context.Context, id uuid.UUID) (*models.Sewer, error)
	ListSewers(ctx context.Context) ([]models.Sewer, error)
	UpdateSewer(ctx context.Context, sewer *models.Sewer) error
	CreateDistribution(ctx context.Context, dist *models.SewerDistribution) error
	FindDistributionByID(ctx context.Context, id uuid.UUID) (*models.SewerDistribution, error)
	FindDistributionByTrackingCode(ctx context.Context, code string) (*models.SewerDistribution, error)
	ListDistributionsForForecast(ctx context.Context, forecastID uuid.UUID) ([]models.SewerDistribution, error)
}

type forecastsReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Forecast, error)
}

// Service manages sewing partners and hands forecast quantities out to them.
type Service interface {
	CreateSewer(ctx context.Context, input SewerInput) (*models.Sewer, error)
	GetSewer(ctx context.Context, id uuid.UUID) (*models.Sewer, error)
	ListSewers(ctx context.Context) ([]models.Sewer, error)
	UpdateSewer(ctx context.Context, id uuid.UUID, input SewerInput) (*models.Sewer, error)
	Distribute(ctx context.Context, input DistributionInput) (*models.SewerDistribution, error)
	GetDistribution(ctx context.Context, id uuid.UUID) (*models.SewerDistribution, error)
	TrackDistribution(ctx context.Context, trackingCode string) (*models.SewerDistribution, error)
	ListDistributionsForForecast(ctx context.Context, forecastID uuid.UUID) ([]models.SewerDistribution, error)
}

type service struct {
	repo      sewersRepository
	forecasts forecastsReader
	newCode   func() string
}

// SewerInput holds the fields of a sewing partner record.
type SewerInput struct {
	Name    string
	Phone   *string
	Address *string
}

// DistributionInput hands quantity from a forecast to one sewer.
type DistributionInput struct {
	ForecastID  uuid.UUID
	SewerID     uuid.UUID
	Quantity    int
	Accessories []string
}

// NewTrackingCode returns the 8-char uppercase code printed on distribution
// barcodes.
func NewTrackingCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// NewService builds the sewer service.
func NewService(repo sewersRepository, forecasts forecastsReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sewer repository required")
	}
	if forecasts == nil {
		return nil, fmt.Errorf("forecast reader required")
	}
	return &service{repo: repo, forecasts: forecasts, newCode: NewTrackingCode}, nil
}

func (s *service) CreateSewer(ctx context.Context, input SewerInput) (*models.Sewer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	sewer := &models.Sewer{Name: name, Phone: input.Phone, Address: input.Address}
	if err := s.repo.CreateSewer(ctx, sewer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sewer")
	}
	return sewer, nil
}

func (s *service) GetSewer(ctx context.Context, id uuid.UUID) (*models.Sewer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sewer id is required")
	}
	sewer, err := s.repo.FindSewerByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sewer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup sewer")
	}
	return sewer, nil
}

func (s *service) ListSewers(ctx context.Context) ([]models.Sewer, error) {
	rows, err := s.repo.ListSewers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sewers")
	}
	return rows, nil
}

func (s *service) UpdateSewer(ctx context.Context, id uuid.UUID, input SewerInput) (*models.Sewer, error) {
	sewer, err := s.GetSewer(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	sewer.Name = name
	sewer.Phone = input.Phone
	sewer.Address = input.Address
	if err := s.repo.UpdateSewer(ctx, sewer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sewer")
	}
	return sewer, nil
}

// Distribute assigns quantity to a sewer and stamps a fresh tracking code.
// Accessories entries are trimmed; blanks are dropped.
func (s *service) Distribute(ctx context.Context, input DistributionInput) (*models.SewerDistribution, error) {
	if input.ForecastID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "forecast_id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if _, err := s.forecasts.FindByID(ctx, input.ForecastID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "forecast not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup forecast")
	}
	if _, err := s.GetSewer(ctx, input.SewerID); err != nil {
		return nil, err
	}

	accessories := make(pq.StringArray, 0, len(input.Accessories))
	for _, item := range input.Accessories {
		item = strings.TrimSpace(item)
		if item != "" {
			accessories = append(accessories, item)
		}
	}

	dist := &models.SewerDistribution{
		ForecastID:   input.ForecastID,
		SewerID:      input.SewerID,
		Quantity:     input.Quantity,
		Accessories:  accessories,
		TrackingCode: s.newCode(),
	}
	if err := s.repo.CreateDistribution(ctx, dist); err != nil {
		if db.IsUniqueViolation(err, "sewer_distributions_tracking_code_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "tracking code collision, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create distribution")
	}
	return dist, nil
}

func (s *service) GetDistribution(ctx context.Context, id uuid.UUID) (*models.SewerDistribution, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "distribution id is required")
	}
	dist, err := s.repo.FindDistributionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "distribution not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup distribution")
	}
	return dist, nil
}

func (s *service) TrackDistribution(ctx context.Context, trackingCode string) (*models.SewerDistribution, error) {
	code := strings.ToUpper(strings.TrimSpace(trackingCode))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking code is required")
	}
	dist, err := s.repo.FindDistributionByTrackingCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "distribution not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup distribution")
	}
	return dist, nil
}

func (s *service) ListDistributionsForForecast(ctx context.Context, forecastID uuid.UUID) ([]models.SewerDistribution, error) {
	if forecastID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "forecast id is required")
	}
	rows, err := s.repo.ListDistributionsForForecast(ctx, forecastID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list distributions")
	}
	return rows, nil
}
