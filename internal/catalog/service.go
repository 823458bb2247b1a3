package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbpkg "github.com/karyatex/konveksi-backend/pkg/db"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	CreatePrinter(ctx context.Context, printer *models.Printer) error
	ListPrinters(ctx context.Context) ([]models.Printer, error)
	CreateVariantType(ctx context.Context, variant *models.VariantType) error
	ListVariantTypes(ctx context.Context) ([]models.VariantType, error)
	CreateFabricType(ctx context.Context, fabric *models.FabricType) error
	ListFabricTypes(ctx context.Context) ([]models.FabricType, error)
	UpsertFabricPrice(ctx context.Context, price *models.FabricPrice) error
	ListFabricPrices(ctx context.Context, fabricTypeID uuid.UUID) ([]models.FabricPrice, error)
	TiersForProduct(ctx context.Context, productID uuid.UUID) ([]models.PriceTier, error)
	ReplaceTiersTx(tx *gorm.DB, productID uuid.UUID, tiers []models.PriceTier) error
}

// Service manages catalog master data: products, printers, variants, fabrics,
// fabric surcharges, and price tiers.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ReplaceTiers(ctx context.Context, productID uuid.UUID, tiers []TierInput) ([]models.PriceTier, error)
	ListTiers(ctx context.Context, productID uuid.UUID) ([]models.PriceTier, error)
	CreatePrinter(ctx context.Context, name string, phone, address *string) (*models.Printer, error)
	ListPrinters(ctx context.Context) ([]models.Printer, error)
	CreateVariantType(ctx context.Context, input CreateVariantTypeInput) (*models.VariantType, error)
	ListVariantTypes(ctx context.Context) ([]models.VariantType, error)
	CreateFabricType(ctx context.Context, name string, additionalPrice decimal.Decimal) (*models.FabricType, error)
	ListFabricTypes(ctx context.Context) ([]models.FabricType, error)
	SetFabricPrice(ctx context.Context, input SetFabricPriceInput) (*models.FabricPrice, error)
	ListFabricPrices(ctx context.Context, fabricTypeID uuid.UUID) ([]models.FabricPrice, error)
}

type service struct {
	repo catalogRepository
	tx   txRunner
}

// CreateProductInput holds the fields for a new product.
type CreateProductInput struct {
	Name      string
	SKU       string
	PrinterID *uuid.UUID
}

// CreateVariantTypeInput holds the fields for a new variant classifier.
type CreateVariantTypeInput struct {
	Code string
	Name string
	Unit string
}

// SetFabricPriceInput holds one (fabric, variant) surcharge assignment.
type SetFabricPriceInput struct {
	FabricTypeID  uuid.UUID
	VariantTypeID *uuid.UUID
	Price         decimal.Decimal
}

// TierInput is one quantity range in a product's tier set.
type TierInput struct {
	VariantTypeID *uuid.UUID
	MinQty        int
	MaxQty        *int
	BasePrice     decimal.Decimal
}

// NewService builds the catalog service.
func NewService(repo catalogRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	sku := strings.TrimSpace(input.SKU)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	product := &models.Product{Name: name, SKU: sku, PrinterID: input.PrinterID}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if dbpkg.IsUniqueViolation(err, "products_sku_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

// ReplaceTiers swaps a product's full tier set after validating that no two
// ranges overlap within the same variant group. Pricing correctness depends
// on at most one tier covering any quantity.
func (s *service) ReplaceTiers(ctx context.Context, productID uuid.UUID, tiers []TierInput) ([]models.PriceTier, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if len(tiers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one tier is required")
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	if err := validateTierRanges(tiers); err != nil {
		return nil, err
	}

	rows := make([]models.PriceTier, len(tiers))
	for i, tier := range tiers {
		rows[i] = models.PriceTier{
			ProductID:     productID,
			VariantTypeID: tier.VariantTypeID,
			MinQty:        tier.MinQty,
			MaxQty:        tier.MaxQty,
			BasePrice:     tier.BasePrice,
		}
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.ReplaceTiersTx(tx, productID, rows)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace price tiers")
	}
	return rows, nil
}

func (s *service) ListTiers(ctx context.Context, productID uuid.UUID) ([]models.PriceTier, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	rows, err := s.repo.TiersForProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price tiers")
	}
	return rows, nil
}

func (s *service) CreatePrinter(ctx context.Context, name string, phone, address *string) (*models.Printer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	printer := &models.Printer{Name: strings.TrimSpace(name), Phone: phone, Address: address}
	if err := s.repo.CreatePrinter(ctx, printer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create printer")
	}
	return printer, nil
}

func (s *service) ListPrinters(ctx context.Context) ([]models.Printer, error) {
	rows, err := s.repo.ListPrinters(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list printers")
	}
	return rows, nil
}

func (s *service) CreateVariantType(ctx context.Context, input CreateVariantTypeInput) (*models.VariantType, error) {
	code := strings.TrimSpace(strings.ToUpper(input.Code))
	if len(code) != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code must be a single character")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Unit) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
	}
	variant := &models.VariantType{
		Code: code,
		Name: strings.TrimSpace(input.Name),
		Unit: strings.ToLower(strings.TrimSpace(input.Unit)),
	}
	if err := s.repo.CreateVariantType(ctx, variant); err != nil {
		if dbpkg.IsUniqueViolation(err, "variant_types_code_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "variant code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variant type")
	}
	return variant, nil
}

func (s *service) ListVariantTypes(ctx context.Context) ([]models.VariantType, error) {
	rows, err := s.repo.ListVariantTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list variant types")
	}
	return rows, nil
}

func (s *service) CreateFabricType(ctx context.Context, name string, additionalPrice decimal.Decimal) (*models.FabricType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if additionalPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "additional_price must not be negative")
	}
	fabric := &models.FabricType{Name: strings.TrimSpace(name), AdditionalPrice: additionalPrice}
	if err := s.repo.CreateFabricType(ctx, fabric); err != nil {
		if dbpkg.IsUniqueViolation(err, "fabric_types_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "fabric type already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create fabric type")
	}
	return fabric, nil
}

func (s *service) ListFabricTypes(ctx context.Context) ([]models.FabricType, error) {
	rows, err := s.repo.ListFabricTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fabric types")
	}
	return rows, nil
}

func (s *service) SetFabricPrice(ctx context.Context, input SetFabricPriceInput) (*models.FabricPrice, error) {
	if input.FabricTypeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fabric_type_id is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	price := &models.FabricPrice{
		FabricTypeID:  input.FabricTypeID,
		VariantTypeID: input.VariantTypeID,
		Price:         input.Price,
	}
	if err := s.repo.UpsertFabricPrice(ctx, price); err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_fabric_prices_pair") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "surcharge already set for this fabric/variant pair")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set fabric price")
	}
	return price, nil
}

func (s *service) ListFabricPrices(ctx context.Context, fabricTypeID uuid.UUID) ([]models.FabricPrice, error) {
	if fabricTypeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fabric_type_id is required")
	}
	rows, err := s.repo.ListFabricPrices(ctx, fabricTypeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fabric prices")
	}
	return rows, nil
}

// validateTierRanges rejects invalid and overlapping ranges per variant group.
func validateTierRanges(tiers []TierInput) error {
	groups := make(map[string][]TierInput)
	for _, tier := range tiers {
		if tier.MinQty < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "min_qty must be at least 1")
		}
		if tier.MaxQty != nil && *tier.MaxQty < tier.MinQty {
			return pkgerrors.New(pkgerrors.CodeValidation, "max_qty must not be below min_qty")
		}
		if tier.BasePrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "base_price must not be negative")
		}
		key := ""
		if tier.VariantTypeID != nil {
			key = tier.VariantTypeID.String()
		}
		groups[key] = append(groups[key], tier)
	}

	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].MinQty < group[j].MinQty })
		for i := 1; i < len(group); i++ {
			prev := group[i-1]
			if prev.MaxQty == nil || *prev.MaxQty >= group[i].MinQty {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("tier ranges overlap around quantity %d", group[i].MinQty))
			}
		}
	}
	return nil
}
