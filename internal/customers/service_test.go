package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

func TestNextIdentityCode(t *testing.T) {
	cases := []struct {
		name     string
		source   enums.CustomerSource
		existing int64
		want     string
	}{
		{"first konveksi customer", enums.CustomerSourceKonveksi, 0, "CUSTK-0001"},
		{"first marketplace customer", enums.CustomerSourceMarketplace, 0, "CUSTM-0001"},
		{"mid sequence", enums.CustomerSourceKonveksi, 41, "CUSTK-0042"},
		{"last of first block", enums.CustomerSourceKonveksi, 9998, "CUSTK-9999"},
		{"first rollover", enums.CustomerSourceKonveksi, 9999, "CUSTKA-0001"},
		{"inside first rollover block", enums.CustomerSourceMarketplace, 10500, "CUSTMA-0502"},
		{"second rollover block", enums.CustomerSourceKonveksi, 2 * 9999, "CUSTKB-0001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextIdentityCode(tc.source, tc.existing)
			if err != nil {
				t.Fatalf("NextIdentityCode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("NextIdentityCode(%d) = %q, want %q", tc.existing, got, tc.want)
			}
		})
	}
}

func TestNextIdentityCodeRejectsNegative(t *testing.T) {
	if _, err := NextIdentityCode(enums.CustomerSourceKonveksi, -1); err == nil {
		t.Fatal("expected error for negative count")
	}
}

type fakeCustomerRepo struct {
	countBySource map[enums.CustomerSource]int64
	created       []*models.Customer
	byID          map[uuid.UUID]*models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		countBySource: make(map[enums.CustomerSource]int64),
		byID:          make(map[uuid.UUID]*models.Customer),
	}
}

func (f *fakeCustomerRepo) CountBySourceTx(_ *gorm.DB, source enums.CustomerSource) (int64, error) {
	return f.countBySource[source], nil
}

func (f *fakeCustomerRepo) CreateTx(_ *gorm.DB, customer *models.Customer) error {
	customer.ID = uuid.New()
	f.created = append(f.created, customer)
	f.countBySource[customer.Source]++
	f.byID[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	if customer, ok := f.byID[id]; ok {
		return customer, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) Search(context.Context, string) ([]models.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) Update(context.Context, *models.Customer) error { return nil }

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func TestCreateAssignsSequentialCodes(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc, err := NewService(repo, passthroughTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	first, err := svc.Create(context.Background(), CreateInput{Name: "Budi", Source: enums.CustomerSourceKonveksi})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(context.Background(), CreateInput{Name: "Sari", Source: enums.CustomerSourceKonveksi})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	marketplace, err := svc.Create(context.Background(), CreateInput{Name: "Toko A", Source: enums.CustomerSourceMarketplace})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if first.IdentityCode != "CUSTK-0001" {
		t.Fatalf("unexpected first code %q", first.IdentityCode)
	}
	if second.IdentityCode != "CUSTK-0002" {
		t.Fatalf("unexpected second code %q", second.IdentityCode)
	}
	if marketplace.IdentityCode != "CUSTM-0001" {
		t.Fatalf("marketplace sequence must be independent, got %q", marketplace.IdentityCode)
	}
}

func TestCreateValidation(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc, err := NewService(repo, passthroughTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{Name: "  ", Source: enums.CustomerSourceKonveksi})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{Name: "Budi", Source: enums.CustomerSource("walkin")})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad source, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc, err := NewService(repo, passthroughTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
