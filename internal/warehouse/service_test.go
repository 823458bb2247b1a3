package warehouse

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

// fakeWarehouseRepo keeps an in-memory ledger so the fold semantics are
// exercised end to end.
type fakeWarehouseRepo struct {
	materials  map[uuid.UUID]*models.Material
	suppliers  map[uuid.UUID]*models.Supplier
	pos        map[uuid.UUID]*models.PurchaseOrder
	receivings []*models.Receiving
	issuings   []*models.Issuing
	opnames    []*models.StockOpname
	movements  []models.StockMovement
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{
		materials: make(map[uuid.UUID]*models.Material),
		suppliers: make(map[uuid.UUID]*models.Supplier),
		pos:       make(map[uuid.UUID]*models.PurchaseOrder),
	}
}

func (f *fakeWarehouseRepo) CreateMaterial(_ context.Context, material *models.Material) error {
	material.ID = uuid.New()
	f.materials[material.ID] = material
	return nil
}

func (f *fakeWarehouseRepo) FindMaterialByID(_ context.Context, id uuid.UUID) (*models.Material, error) {
	if material, ok := f.materials[id]; ok {
		return material, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWarehouseRepo) ListMaterials(context.Context) ([]models.Material, error) {
	return nil, nil
}

func (f *fakeWarehouseRepo) CreateSupplier(_ context.Context, supplier *models.Supplier) error {
	supplier.ID = uuid.New()
	f.suppliers[supplier.ID] = supplier
	return nil
}

func (f *fakeWarehouseRepo) FindSupplierByID(_ context.Context, id uuid.UUID) (*models.Supplier, error) {
	if supplier, ok := f.suppliers[id]; ok {
		return supplier, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWarehouseRepo) ListSuppliers(context.Context) ([]models.Supplier, error) {
	return nil, nil
}

func (f *fakeWarehouseRepo) CreatePurchaseOrder(_ context.Context, po *models.PurchaseOrder) error {
	po.ID = uuid.New()
	f.pos[po.ID] = po
	return nil
}

func (f *fakeWarehouseRepo) FindPurchaseOrderByID(_ context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	if po, ok := f.pos[id]; ok {
		return po, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWarehouseRepo) ListPurchaseOrders(context.Context) ([]models.PurchaseOrder, error) {
	return nil, nil
}

func (f *fakeWarehouseRepo) CreateReceivingTx(_ *gorm.DB, receiving *models.Receiving, movement *models.StockMovement) error {
	receiving.ID = uuid.New()
	f.receivings = append(f.receivings, receiving)
	movement.ReferenceID = receiving.ID
	f.movements = append(f.movements, *movement)
	return nil
}

func (f *fakeWarehouseRepo) CreateIssuingTx(_ *gorm.DB, issuing *models.Issuing, movement *models.StockMovement) error {
	issuing.ID = uuid.New()
	f.issuings = append(f.issuings, issuing)
	movement.ReferenceID = issuing.ID
	f.movements = append(f.movements, *movement)
	return nil
}

func (f *fakeWarehouseRepo) CreateOpnameTx(_ *gorm.DB, opname *models.StockOpname, movement *models.StockMovement) error {
	opname.ID = uuid.New()
	f.opnames = append(f.opnames, opname)
	if movement != nil {
		movement.ReferenceID = opname.ID
		f.movements = append(f.movements, *movement)
	}
	return nil
}

func (f *fakeWarehouseRepo) sum(materialID uuid.UUID) int {
	total := 0
	for _, movement := range f.movements {
		if movement.MaterialID == materialID {
			total += movement.Quantity
		}
	}
	return total
}

func (f *fakeWarehouseRepo) StockLevel(_ context.Context, materialID uuid.UUID) (int, error) {
	return f.sum(materialID), nil
}

func (f *fakeWarehouseRepo) StockLevelTx(_ *gorm.DB, materialID uuid.UUID) (int, error) {
	return f.sum(materialID), nil
}

func (f *fakeWarehouseRepo) ListMovements(_ context.Context, materialID uuid.UUID, filter MovementFilter) ([]models.StockMovement, error) {
	var rows []models.StockMovement
	for _, movement := range f.movements {
		if movement.MaterialID != materialID {
			continue
		}
		if filter.From != nil && movement.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !movement.OccurredAt.Before(*filter.To) {
			continue
		}
		rows = append(rows, movement)
	}
	return rows, nil
}

func (f *fakeWarehouseRepo) OpeningBalance(_ context.Context, materialID uuid.UUID, before time.Time) (int, error) {
	total := 0
	for _, movement := range f.movements {
		if movement.MaterialID == materialID && movement.OccurredAt.Before(before) {
			total += movement.Quantity
		}
	}
	return total, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newTestWarehouseService(t *testing.T) (Service, *fakeWarehouseRepo) {
	t.Helper()
	repo := newFakeWarehouseRepo()
	svc, err := NewService(repo, passthroughTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.(*service).now = func() time.Time {
		return time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func seedMaterial(t *testing.T, svc Service) *models.Material {
	t.Helper()
	material, err := svc.CreateMaterial(context.Background(), MaterialInput{
		Code:     "kn-001",
		Name:     "Kain Drifit",
		Category: enums.MaterialCategoryKain,
		Unit:     enums.MaterialUnitRoll,
	})
	if err != nil {
		t.Fatalf("CreateMaterial: %v", err)
	}
	return material
}

func TestCreateMaterialUppercasesCode(t *testing.T) {
	svc, _ := newTestWarehouseService(t)
	material := seedMaterial(t, svc)
	if material.Code != "KN-001" {
		t.Fatalf("code = %q", material.Code)
	}
}

func TestCreateMaterialValidation(t *testing.T) {
	svc, _ := newTestWarehouseService(t)

	cases := map[string]MaterialInput{
		"blank code":   {Name: "Kain", Category: enums.MaterialCategoryKain, Unit: enums.MaterialUnitRoll},
		"blank name":   {Code: "KN-1", Category: enums.MaterialCategoryKain, Unit: enums.MaterialUnitRoll},
		"bad category": {Code: "KN-1", Name: "Kain", Category: enums.MaterialCategory("besi"), Unit: enums.MaterialUnitRoll},
		"bad unit":     {Code: "KN-1", Name: "Kain", Category: enums.MaterialCategoryKain, Unit: enums.MaterialUnit("meter")},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateMaterial(context.Background(), input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestReceiveAppendsPositiveMovement(t *testing.T) {
	svc, repo := newTestWarehouseService(t)
	material := seedMaterial(t, svc)

	receiving, err := svc.Receive(context.Background(), ReceiveInput{
		MaterialID: material.ID,
		Quantity:   100,
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(repo.movements) != 1 {
		t.Fatalf("expected one movement, got %d", len(repo.movements))
	}
	movement := repo.movements[0]
	if movement.MovementType != enums.MovementReceived || movement.Quantity != 100 {
		t.Fatalf("unexpected movement %+v", movement)
	}
	if movement.ReferenceType != "receiving" || movement.ReferenceID != receiving.ID {
		t.Fatalf("movement not linked to receiving: %+v", movement)
	}

	level, err := svc.StockLevel(context.Background(), material.ID)
	if err != nil {
		t.Fatalf("StockLevel: %v", err)
	}
	if level != 100 {
		t.Fatalf("stock level = %d, want 100", level)
	}
}

func TestIssueRejectsInsufficientStock(t *testing.T) {
	svc, repo := newTestWarehouseService(t)
	material := seedMaterial(t, svc)

	if _, err := svc.Receive(context.Background(), ReceiveInput{MaterialID: material.ID, Quantity: 10}); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	_, err := svc.Issue(context.Background(), IssueInput{MaterialID: material.ID, Quantity: 15})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(repo.issuings) != 0 {
		t.Fatal("no issuing should be recorded")
	}

	if _, err := svc.Issue(context.Background(), IssueInput{MaterialID: material.ID, Quantity: 4}); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	level, err := svc.StockLevel(context.Background(), material.ID)
	if err != nil {
		t.Fatalf("StockLevel: %v", err)
	}
	if level != 6 {
		t.Fatalf("stock level = %d, want 6", level)
	}
}

func TestOpnameRecordsAdjustment(t *testing.T) {
	svc, repo := newTestWarehouseService(t)
	material := seedMaterial(t, svc)

	if _, err := svc.Receive(context.Background(), ReceiveInput{MaterialID: material.ID, Quantity: 50}); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	opname, err := svc.Opname(context.Background(), OpnameInput{
		MaterialID:    material.ID,
		PhysicalCount: 47,
	})
	if err != nil {
		t.Fatalf("Opname: %v", err)
	}
	if opname.ComputedCount != 50 || opname.Adjustment != -3 {
		t.Fatalf("unexpected opname %+v", opname)
	}

	level, err := svc.StockLevel(context.Background(), material.ID)
	if err != nil {
		t.Fatalf("StockLevel: %v", err)
	}
	if level != 47 {
		t.Fatalf("stock level = %d, want 47", level)
	}

	// Matching count appends no movement.
	before := len(repo.movements)
	if _, err := svc.Opname(context.Background(), OpnameInput{MaterialID: material.ID, PhysicalCount: 47}); err != nil {
		t.Fatalf("Opname: %v", err)
	}
	if len(repo.movements) != before {
		t.Fatal("zero adjustment must not append a movement")
	}
}

func TestStockCardRunningBalance(t *testing.T) {
	svc, _ := newTestWarehouseService(t)
	material := seedMaterial(t, svc)

	day := func(d int) time.Time {
		return time.Date(2026, time.August, d, 0, 0, 0, 0, time.UTC)
	}
	if _, err := svc.Receive(context.Background(), ReceiveInput{MaterialID: material.ID, Quantity: 100, ReceivedAt: day(1)}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if _, err := svc.Issue(context.Background(), IssueInput{MaterialID: material.ID, Quantity: 30, IssuedAt: day(5)}); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Receive(context.Background(), ReceiveInput{MaterialID: material.ID, Quantity: 20, ReceivedAt: day(10)}); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	from := day(4)
	card, err := svc.StockCard(context.Background(), material.ID, MovementFilter{From: &from})
	if err != nil {
		t.Fatalf("StockCard: %v", err)
	}
	if len(card) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(card))
	}
	// Opening balance 100 from the day-1 receipt outside the window.
	if card[0].Balance != 70 {
		t.Fatalf("first balance = %d, want 70", card[0].Balance)
	}
	if card[1].Balance != 90 {
		t.Fatalf("second balance = %d, want 90", card[1].Balance)
	}
}

func TestCreatePurchaseOrderValidatesLines(t *testing.T) {
	svc, _ := newTestWarehouseService(t)
	material := seedMaterial(t, svc)

	supplier, err := svc.CreateSupplier(context.Background(), SupplierInput{Name: "PT Tekstil"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}

	po, err := svc.CreatePurchaseOrder(context.Background(), PurchaseOrderInput{
		Number:     "PO-2026-001",
		SupplierID: supplier.ID,
		Items:      []PurchaseOrderItemInput{{MaterialID: material.ID, Quantity: 40}},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	if len(po.Items) != 1 || po.Items[0].Quantity != 40 {
		t.Fatalf("unexpected items %+v", po.Items)
	}

	_, err = svc.CreatePurchaseOrder(context.Background(), PurchaseOrderInput{
		Number:     "PO-2026-002",
		SupplierID: supplier.ID,
		Items:      []PurchaseOrderItemInput{{MaterialID: uuid.New(), Quantity: 5}},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown material, got %v", err)
	}

	_, err = svc.CreatePurchaseOrder(context.Background(), PurchaseOrderInput{
		Number:     "PO-2026-003",
		SupplierID: supplier.ID,
		Items:      []PurchaseOrderItemInput{{MaterialID: material.ID, Quantity: 0}},
	})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
}
