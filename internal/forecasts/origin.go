package forecasts

import (
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
)

// Origin is the explicit variant behind a forecast. Each derived display
// field has exactly one accessor; variants answer from their own source
// records and return "" when the association is not loaded or not set.
type Origin interface {
	Kind() enums.ForecastOrigin
	ProductName() string
	SKU() string
	FabricName() string
	PrinterName() string
	CustomerName() string
}

// StockOrigin is a forecast cut from an internal stock batch.
type StockOrigin struct {
	Item *models.StockItem
}

func (o StockOrigin) Kind() enums.ForecastOrigin { return enums.ForecastOriginStock }

func (o StockOrigin) ProductName() string {
	if o.Item == nil || o.Item.Product == nil {
		return ""
	}
	return o.Item.Product.Name
}

func (o StockOrigin) SKU() string {
	if o.Item == nil || o.Item.Product == nil {
		return ""
	}
	return o.Item.Product.SKU
}

func (o StockOrigin) FabricName() string {
	if o.Item == nil || o.Item.FabricType == nil {
		return ""
	}
	return o.Item.FabricType.Name
}

func (o StockOrigin) PrinterName() string {
	if o.Item == nil || o.Item.Product == nil || o.Item.Product.Printer == nil {
		return ""
	}
	return o.Item.Product.Printer.Name
}

// CustomerName is always empty for stock runs; no customer ordered them.
func (o StockOrigin) CustomerName() string { return "" }

// KonveksiOrigin is a forecast cut from one konveksi order line.
type KonveksiOrigin struct {
	Item  *models.OrderItem
	Order *models.Order
}

func (o KonveksiOrigin) Kind() enums.ForecastOrigin { return enums.ForecastOriginKonveksi }

func (o KonveksiOrigin) ProductName() string {
	if o.Item == nil || o.Item.Product == nil {
		return ""
	}
	return o.Item.Product.Name
}

func (o KonveksiOrigin) SKU() string {
	if o.Item == nil || o.Item.Product == nil {
		return ""
	}
	return o.Item.Product.SKU
}

func (o KonveksiOrigin) FabricName() string {
	if o.Item == nil || o.Item.FabricType == nil {
		return ""
	}
	return o.Item.FabricType.Name
}

func (o KonveksiOrigin) PrinterName() string {
	if o.Item == nil || o.Item.Product == nil || o.Item.Product.Printer == nil {
		return ""
	}
	return o.Item.Product.Printer.Name
}

func (o KonveksiOrigin) CustomerName() string {
	if o.Order == nil || o.Order.Customer == nil {
		return ""
	}
	return o.Order.Customer.Name
}

// MarketplaceOrigin is a forecast cut from a whole marketplace order; there
// is no catalog line behind it, so product fields come back empty.
type MarketplaceOrigin struct {
	Order *models.Order
}

func (o MarketplaceOrigin) Kind() enums.ForecastOrigin { return enums.ForecastOriginMarketplace }

func (o MarketplaceOrigin) ProductName() string {
	if o.Order == nil || o.Order.OrderChoice == nil {
		return ""
	}
	return *o.Order.OrderChoice
}

func (o MarketplaceOrigin) SKU() string        { return "" }
func (o MarketplaceOrigin) FabricName() string { return "" }

func (o MarketplaceOrigin) PrinterName() string { return "" }

func (o MarketplaceOrigin) CustomerName() string {
	if o.Order == nil || o.Order.BuyerName == nil {
		return ""
	}
	return *o.Order.BuyerName
}

// OriginOf builds the origin variant for a loaded forecast row.
func OriginOf(forecast *models.Forecast) (Origin, error) {
	if forecast == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "forecast is nil")
	}
	switch forecast.Origin {
	case enums.ForecastOriginStock:
		return StockOrigin{Item: forecast.StockItem}, nil
	case enums.ForecastOriginKonveksi:
		var order *models.Order
		if forecast.OrderItem != nil {
			order = forecast.OrderItem.Order
		}
		return KonveksiOrigin{Item: forecast.OrderItem, Order: order}, nil
	case enums.ForecastOriginMarketplace:
		return MarketplaceOrigin{Order: forecast.Order}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unknown forecast origin")
	}
}
