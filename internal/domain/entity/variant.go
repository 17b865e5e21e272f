package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant es la unidad vendible (SKU) de un producto. Toda la contabilidad de
// disponibilidad se lleva por variante; el producto solo agrega sus variantes.
type Variant struct {
	ID        string
	ProductID string
	SKU       string // único por producto
	Price     decimal.Decimal
	Cost      decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
