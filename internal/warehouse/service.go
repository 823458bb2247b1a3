package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/db"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type warehouseRepository interface {
	CreateMaterial(ctx context.Context, material *models.Material) error
	FindMaterialByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	ListMaterials(ctx context.Context) ([]models.Material, error)
	CreateSupplier(ctx context.Context, supplier *models.Supplier) error
	FindSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error
	FindPurchaseOrderByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error)
	CreateReceivingTx(tx *gorm.DB, receiving *models.Receiving, movement *models.StockMovement) error
	CreateIssuingTx(tx *gorm.DB, issuing *models.Issuing, movement *models.StockMovement) error
	CreateOpnameTx(tx *gorm.DB, opname *models.StockOpname, movement *models.StockMovement) error
	StockLevel(ctx context.Context, materialID uuid.UUID) (int, error)
	StockLevelTx(tx *gorm.DB, materialID uuid.UUID) (int, error)
	ListMovements(ctx context.Context, materialID uuid.UUID, filter MovementFilter) ([]models.StockMovement, error)
	OpeningBalance(ctx context.Context, materialID uuid.UUID, before time.Time) (int, error)
}

// Service runs the materials warehouse. Stock is never stored as a counter;
// every read folds the movement ledger.
type Service interface {
	CreateMaterial(ctx context.Context, input MaterialInput) (*models.Material, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error)
	ListMaterials(ctx context.Context) ([]models.Material, error)

	CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)

	CreatePurchaseOrder(ctx context.Context, input PurchaseOrderInput) (*models.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error)

	Receive(ctx context.Context, input ReceiveInput) (*models.Receiving, error)
	Issue(ctx context.Context, input IssueInput) (*models.Issuing, error)
	Opname(ctx context.Context, input OpnameInput) (*models.StockOpname, error)

	StockLevel(ctx context.Context, materialID uuid.UUID) (int, error)
	StockCard(ctx context.Context, materialID uuid.UUID, filter MovementFilter) ([]StockCardEntry, error)
}

type service struct {
	repo warehouseRepository
	tx   txRunner
	now  func() time.Time
}

// MaterialInput holds the fields of a material master record.
type MaterialInput struct {
	Code     string
	Name     string
	Category enums.MaterialCategory
	Unit     enums.MaterialUnit
}

// SupplierInput holds the fields of a supplier record.
type SupplierInput struct {
	Name    string
	Phone   *string
	Address *string
}

// PurchaseOrderItemInput is one material line of a purchase order.
type PurchaseOrderItemInput struct {
	MaterialID uuid.UUID
	Quantity   int
}

// PurchaseOrderInput holds the fields of a purchase order.
type PurchaseOrderInput struct {
	Number     string
	SupplierID uuid.UUID
	Items      []PurchaseOrderItemInput
	OrderedAt  time.Time
}

// ReceiveInput books material intake.
type ReceiveInput struct {
	PurchaseOrderID *uuid.UUID
	MaterialID      uuid.UUID
	Quantity        int
	ReceivedAt      time.Time
	Note            *string
	CreatedBy       *uuid.UUID
}

// IssueInput hands material out to production.
type IssueInput struct {
	MaterialID uuid.UUID
	ForecastID *uuid.UUID
	Quantity   int
	IssuedAt   time.Time
	Note       *string
	CreatedBy  *uuid.UUID
}

// OpnameInput reconciles a physical count against the ledger.
type OpnameInput struct {
	MaterialID    uuid.UUID
	PhysicalCount int
	CountedAt     time.Time
	Note          *string
	CreatedBy     *uuid.UUID
}

// StockCardEntry is one stock card line: the movement plus the running
// balance after it.
type StockCardEntry struct {
	Movement models.StockMovement
	Balance  int
}

// NewService builds the warehouse service.
func NewService(repo warehouseRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) CreateMaterial(ctx context.Context, input MaterialInput) (*models.Material, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	name := strings.TrimSpace(input.Name)
	switch {
	case code == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	case name == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	case !input.Category.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid material category")
	case !input.Unit.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid material unit")
	}
	material := &models.Material{
		Code:     code,
		Name:     name,
		Category: input.Category,
		Unit:     input.Unit,
	}
	if err := s.repo.CreateMaterial(ctx, material); err != nil {
		if db.IsUniqueViolation(err, "materials_code_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "material code already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create material")
	}
	return material, nil
}

func (s *service) GetMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material id is required")
	}
	material, err := s.repo.FindMaterialByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup material")
	}
	return material, nil
}

func (s *service) ListMaterials(ctx context.Context) ([]models.Material, error) {
	rows, err := s.repo.ListMaterials(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list materials")
	}
	return rows, nil
}

func (s *service) CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	supplier := &models.Supplier{Name: name, Phone: input.Phone, Address: input.Address}
	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
	}
	return supplier, nil
}

func (s *service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	rows, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}
	return rows, nil
}

func (s *service) CreatePurchaseOrder(ctx context.Context, input PurchaseOrderInput) (*models.PurchaseOrder, error) {
	number := strings.TrimSpace(input.Number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "number is required")
	}
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	if _, err := s.repo.FindSupplierByID(ctx, input.SupplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup supplier")
	}

	items := make([]models.PurchaseOrderItem, len(input.Items))
	for i, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if _, err := s.GetMaterial(ctx, line.MaterialID); err != nil {
			return nil, err
		}
		items[i] = models.PurchaseOrderItem{MaterialID: line.MaterialID, Quantity: line.Quantity}
	}

	orderedAt := input.OrderedAt
	if orderedAt.IsZero() {
		orderedAt = s.now()
	}
	po := &models.PurchaseOrder{
		Number:     number,
		SupplierID: input.SupplierID,
		Items:      items,
		OrderedAt:  orderedAt,
	}
	if err := s.repo.CreatePurchaseOrder(ctx, po); err != nil {
		if db.IsUniqueViolation(err, "purchase_orders_number_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "purchase order number already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
	}
	return po, nil
}

func (s *service) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order id is required")
	}
	po, err := s.repo.FindPurchaseOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup purchase order")
	}
	return po, nil
}

func (s *service) ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	rows, err := s.repo.ListPurchaseOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase orders")
	}
	return rows, nil
}

// Receive books intake and appends the positive ledger movement in one
// transaction.
func (s *service) Receive(ctx context.Context, input ReceiveInput) (*models.Receiving, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if _, err := s.GetMaterial(ctx, input.MaterialID); err != nil {
		return nil, err
	}
	if input.PurchaseOrderID != nil {
		if _, err := s.GetPurchaseOrder(ctx, *input.PurchaseOrderID); err != nil {
			return nil, err
		}
	}
	receivedAt := input.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = s.now()
	}

	receiving := &models.Receiving{
		PurchaseOrderID: input.PurchaseOrderID,
		MaterialID:      input.MaterialID,
		Quantity:        input.Quantity,
		ReceivedAt:      receivedAt,
		Note:            input.Note,
		CreatedBy:       input.CreatedBy,
	}
	movement := &models.StockMovement{
		MaterialID:    input.MaterialID,
		MovementType:  enums.MovementReceived,
		Quantity:      input.Quantity,
		ReferenceType: "receiving",
		OccurredAt:    receivedAt,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.CreateReceivingTx(tx, receiving, movement)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create receiving")
	}
	return receiving, nil
}

// Issue hands material out; the ledger movement is negative. Issuing more
// than the folded stock level is rejected.
func (s *service) Issue(ctx context.Context, input IssueInput) (*models.Issuing, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if _, err := s.GetMaterial(ctx, input.MaterialID); err != nil {
		return nil, err
	}
	issuedAt := input.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.now()
	}

	issuing := &models.Issuing{
		MaterialID: input.MaterialID,
		ForecastID: input.ForecastID,
		Quantity:   input.Quantity,
		IssuedAt:   issuedAt,
		Note:       input.Note,
		CreatedBy:  input.CreatedBy,
	}
	movement := &models.StockMovement{
		MaterialID:    input.MaterialID,
		MovementType:  enums.MovementIssued,
		Quantity:      -input.Quantity,
		ReferenceType: "issuing",
		OccurredAt:    issuedAt,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		onHand, err := s.repo.StockLevelTx(tx, input.MaterialID)
		if err != nil {
			return err
		}
		if onHand < input.Quantity {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("insufficient stock: %d on hand, %d requested", onHand, input.Quantity))
		}
		return s.repo.CreateIssuingTx(tx, issuing, movement)
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create issuing")
	}
	return issuing, nil
}

// Opname reconciles a physical count; adjustment = physical − computed, and a
// correcting movement is appended only when it is non-zero.
func (s *service) Opname(ctx context.Context, input OpnameInput) (*models.StockOpname, error) {
	if input.PhysicalCount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "physical_count must not be negative")
	}
	if _, err := s.GetMaterial(ctx, input.MaterialID); err != nil {
		return nil, err
	}
	countedAt := input.CountedAt
	if countedAt.IsZero() {
		countedAt = s.now()
	}

	var opname *models.StockOpname
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		computed, err := s.repo.StockLevelTx(tx, input.MaterialID)
		if err != nil {
			return err
		}
		adjustment := input.PhysicalCount - computed
		opname = &models.StockOpname{
			MaterialID:    input.MaterialID,
			PhysicalCount: input.PhysicalCount,
			ComputedCount: computed,
			Adjustment:    adjustment,
			CountedAt:     countedAt,
			Note:          input.Note,
			CreatedBy:     input.CreatedBy,
		}
		var movement *models.StockMovement
		if adjustment != 0 {
			movement = &models.StockMovement{
				MaterialID:    input.MaterialID,
				MovementType:  enums.MovementAdjusted,
				Quantity:      adjustment,
				ReferenceType: "stock_opname",
				OccurredAt:    countedAt,
			}
		}
		return s.repo.CreateOpnameTx(tx, opname, movement)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock opname")
	}
	return opname, nil
}

func (s *service) StockLevel(ctx context.Context, materialID uuid.UUID) (int, error) {
	if _, err := s.GetMaterial(ctx, materialID); err != nil {
		return 0, err
	}
	level, err := s.repo.StockLevel(ctx, materialID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute stock level")
	}
	return level, nil
}

// StockCard returns the date-filtered movement history with a running
// balance. When a lower bound is set the balance opens at the sum of all
// earlier movements.
func (s *service) StockCard(ctx context.Context, materialID uuid.UUID, filter MovementFilter) ([]StockCardEntry, error) {
	if _, err := s.GetMaterial(ctx, materialID); err != nil {
		return nil, err
	}
	balance := 0
	if filter.From != nil {
		opening, err := s.repo.OpeningBalance(ctx, materialID, *filter.From)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute opening balance")
		}
		balance = opening
	}
	movements, err := s.repo.ListMovements(ctx, materialID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list movements")
	}
	card := make([]StockCardEntry, len(movements))
	for i, movement := range movements {
		balance += movement.Quantity
		card[i] = StockCardEntry{Movement: movement, Balance: balance}
	}
	return card, nil
}
