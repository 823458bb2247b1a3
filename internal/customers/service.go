package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/karyatex/konveksi-backend/pkg/db"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customersRepository interface {
	CountBySourceTx(tx *gorm.DB, source enums.CustomerSource) (int64, error)
	CreateTx(tx *gorm.DB, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Search(ctx context.Context, term string) ([]models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
}

// Service manages the customer registry.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Search(ctx context.Context, term string) ([]models.Customer, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Customer, error)
}

type service struct {
	repo customersRepository
	tx   txRunner
}

// CreateInput holds the fields for a new customer; the identity code is
// generated, never supplied.
type CreateInput struct {
	Name    string
	Phone   *string
	Address *string
	Source  enums.CustomerSource
}

// UpdateInput holds the mutable customer fields.
type UpdateInput struct {
	Name    string
	Phone   *string
	Address *string
}

// NewService builds the customer service.
func NewService(repo customersRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Create generates the next identity code and inserts the customer in one
// transaction so concurrent creates cannot claim the same sequence number.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer source")
	}

	customer := &models.Customer{
		Name:    strings.TrimSpace(input.Name),
		Phone:   input.Phone,
		Address: input.Address,
		Source:  input.Source,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		existing, err := s.repo.CountBySourceTx(tx, input.Source)
		if err != nil {
			return err
		}
		code, err := NextIdentityCode(input.Source, existing)
		if err != nil {
			return err
		}
		customer.IdentityCode = code
		return s.repo.CreateTx(tx, customer)
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "customers_identity_code_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "identity code already taken, retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return customer, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer")
	}
	return customer, nil
}

func (s *service) Search(ctx context.Context, term string) ([]models.Customer, error) {
	rows, err := s.repo.Search(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search customers")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	customer.Name = strings.TrimSpace(input.Name)
	customer.Phone = input.Phone
	customer.Address = input.Address
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return customer, nil
}
