package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/karyatex/konveksi-backend/pkg/db/models"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

// CatalogReader provides the tier and surcharge lookups the resolver needs.
// Variant matching is exact: a nil variant selects only variantless rows.
type CatalogReader interface {
	TiersFor(ctx context.Context, productID uuid.UUID, variantTypeID *uuid.UUID) ([]models.PriceTier, error)
	FabricSurcharge(ctx context.Context, fabricTypeID uuid.UUID, variantTypeID *uuid.UUID) (*models.FabricPrice, error)
}

// LineInput is one order line to price.
type LineInput struct {
	ProductID     uuid.UUID
	FabricTypeID  uuid.UUID
	VariantTypeID *uuid.UUID
	Quantity      int
}

// Quote is the priced result for a line. UnitPrice and Subtotal are exact
// decimals; callers persist them as-is and never recompute them.
type Quote struct {
	TierID    uuid.UUID
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Resolver prices order lines from the current tier and surcharge data.
type Resolver struct {
	catalog CatalogReader
}

// NewResolver builds a resolver over the provided catalog reader.
func NewResolver(catalog CatalogReader) (*Resolver, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	return &Resolver{catalog: catalog}, nil
}

// Resolve picks the single tier covering the quantity, adds the fabric
// surcharge, and returns the frozen unit price and subtotal.
func (r *Resolver) Resolve(ctx context.Context, in LineInput) (*Quote, error) {
	if in.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if in.FabricTypeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fabric_type_id is required")
	}
	if in.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	tiers, err := r.catalog.TiersFor(ctx, in.ProductID, in.VariantTypeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price tiers")
	}

	var matched []models.PriceTier
	for _, tier := range tiers {
		if tier.Covers(in.Quantity) {
			matched = append(matched, tier)
		}
	}
	switch len(matched) {
	case 1:
	case 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("no applicable price tier for product %s at quantity %d", in.ProductID, in.Quantity))
	default:
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("overlapping price tiers for product %s at quantity %d", in.ProductID, in.Quantity))
	}
	tier := matched[0]

	surcharge := decimal.Zero
	fabricPrice, err := r.catalog.FabricSurcharge(ctx, in.FabricTypeID, tier.VariantTypeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fabric surcharge")
	}
	if fabricPrice != nil {
		surcharge = fabricPrice.Price
	}

	unitPrice := tier.BasePrice.Add(surcharge)
	return &Quote{
		TierID:    tier.ID,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
	}, nil
}
