package pricing

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

type fakeCatalog struct {
	tiers      []models.PriceTier
	surcharges []models.FabricPrice
}

func (f *fakeCatalog) TiersFor(_ context.Context, productID uuid.UUID, variantTypeID *uuid.UUID) ([]models.PriceTier, error) {
	var out []models.PriceTier
	for _, tier := range f.tiers {
		if tier.ProductID != productID {
			continue
		}
		if !sameVariant(tier.VariantTypeID, variantTypeID) {
			continue
		}
		out = append(out, tier)
	}
	return out, nil
}

func (f *fakeCatalog) FabricSurcharge(_ context.Context, fabricTypeID uuid.UUID, variantTypeID *uuid.UUID) (*models.FabricPrice, error) {
	for _, row := range f.surcharges {
		if row.FabricTypeID == fabricTypeID && sameVariant(row.VariantTypeID, variantTypeID) {
			matched := row
			return &matched, nil
		}
	}
	return nil, nil
}

func sameVariant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtr(v int) *int { return &v }

func money(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func TestResolveTierSelection(t *testing.T) {
	productID := uuid.New()
	fabricID := uuid.New()
	lowTier := models.PriceTier{ID: uuid.New(), ProductID: productID, MinQty: 1, MaxQty: intPtr(11), BasePrice: money(t, "50000")}
	highTier := models.PriceTier{ID: uuid.New(), ProductID: productID, MinQty: 12, BasePrice: money(t, "45000")}

	resolver, err := NewResolver(&fakeCatalog{
		tiers: []models.PriceTier{lowTier, highTier},
		surcharges: []models.FabricPrice{
			{FabricTypeID: fabricID, Price: money(t, "5000")},
		},
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	cases := []struct {
		name      string
		qty       int
		tierID    uuid.UUID
		unitPrice string
		subtotal  string
	}{
		{"inside low tier", 5, lowTier.ID, "55000", "275000"},
		{"low tier min boundary", 1, lowTier.ID, "55000", "55000"},
		{"low tier max boundary", 11, lowTier.ID, "55000", "605000"},
		{"open-ended high tier", 20, highTier.ID, "50000", "1000000"},
		{"high tier min boundary", 12, highTier.ID, "50000", "600000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quote, err := resolver.Resolve(context.Background(), LineInput{
				ProductID:    productID,
				FabricTypeID: fabricID,
				Quantity:     tc.qty,
			})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if quote.TierID != tc.tierID {
				t.Fatalf("expected tier %s, got %s", tc.tierID, quote.TierID)
			}
			if !quote.UnitPrice.Equal(money(t, tc.unitPrice)) {
				t.Fatalf("expected unit price %s, got %s", tc.unitPrice, quote.UnitPrice)
			}
			if !quote.Subtotal.Equal(money(t, tc.subtotal)) {
				t.Fatalf("expected subtotal %s, got %s", tc.subtotal, quote.Subtotal)
			}
		})
	}
}

func TestResolveNullVariantIsolation(t *testing.T) {
	productID := uuid.New()
	fabricID := uuid.New()
	variantID := uuid.New()

	catalog := &fakeCatalog{
		tiers: []models.PriceTier{
			{ID: uuid.New(), ProductID: productID, MinQty: 1, BasePrice: money(t, "40000")},
			{ID: uuid.New(), ProductID: productID, VariantTypeID: &variantID, MinQty: 1, BasePrice: money(t, "60000")},
		},
	}
	resolver, err := NewResolver(catalog)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	base, err := resolver.Resolve(context.Background(), LineInput{ProductID: productID, FabricTypeID: fabricID, Quantity: 3})
	if err != nil {
		t.Fatalf("Resolve base variant: %v", err)
	}
	if !base.UnitPrice.Equal(money(t, "40000")) {
		t.Fatalf("expected variantless tier price, got %s", base.UnitPrice)
	}

	variant, err := resolver.Resolve(context.Background(), LineInput{ProductID: productID, FabricTypeID: fabricID, VariantTypeID: &variantID, Quantity: 3})
	if err != nil {
		t.Fatalf("Resolve variant: %v", err)
	}
	if !variant.UnitPrice.Equal(money(t, "60000")) {
		t.Fatalf("expected variant tier price, got %s", variant.UnitPrice)
	}
}

func TestResolveSurchargeDefaultsToZero(t *testing.T) {
	productID := uuid.New()
	resolver, err := NewResolver(&fakeCatalog{
		tiers: []models.PriceTier{
			{ID: uuid.New(), ProductID: productID, MinQty: 1, BasePrice: money(t, "45000")},
		},
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	quote, err := resolver.Resolve(context.Background(), LineInput{ProductID: productID, FabricTypeID: uuid.New(), Quantity: 2})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !quote.UnitPrice.Equal(money(t, "45000")) {
		t.Fatalf("expected base price only, got %s", quote.UnitPrice)
	}
	if !quote.Subtotal.Equal(money(t, "90000")) {
		t.Fatalf("expected subtotal 90000, got %s", quote.Subtotal)
	}
}

func TestResolveNoApplicableTier(t *testing.T) {
	productID := uuid.New()
	resolver, err := NewResolver(&fakeCatalog{
		tiers: []models.PriceTier{
			{ID: uuid.New(), ProductID: productID, MinQty: 10, MaxQty: intPtr(20), BasePrice: money(t, "45000")},
		},
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), LineInput{ProductID: productID, FabricTypeID: uuid.New(), Quantity: 5})
	if err == nil {
		t.Fatalf("expected error for uncovered quantity")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(appErr.Message(), productID.String()) || !strings.Contains(appErr.Message(), "5") {
		t.Fatalf("expected error naming product and quantity, got %q", appErr.Message())
	}
}

func TestResolveOverlappingTiersFailLoudly(t *testing.T) {
	productID := uuid.New()
	resolver, err := NewResolver(&fakeCatalog{
		tiers: []models.PriceTier{
			{ID: uuid.New(), ProductID: productID, MinQty: 1, MaxQty: intPtr(10), BasePrice: money(t, "50000")},
			{ID: uuid.New(), ProductID: productID, MinQty: 5, MaxQty: intPtr(15), BasePrice: money(t, "48000")},
		},
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), LineInput{ProductID: productID, FabricTypeID: uuid.New(), Quantity: 7})
	if err == nil {
		t.Fatalf("expected error for overlapping tiers")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	resolver, err := NewResolver(&fakeCatalog{})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	cases := []struct {
		name  string
		input LineInput
	}{
		{"missing product", LineInput{FabricTypeID: uuid.New(), Quantity: 1}},
		{"missing fabric", LineInput{ProductID: uuid.New(), Quantity: 1}},
		{"zero quantity", LineInput{ProductID: uuid.New(), FabricTypeID: uuid.New(), Quantity: 0}},
		{"negative quantity", LineInput{ProductID: uuid.New(), FabricTypeID: uuid.New(), Quantity: -4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
