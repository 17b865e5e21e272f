package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutLineRequest línea del carrito al confirmar.
type CheckoutLineRequest struct {
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest body para POST /api/orders.
type CheckoutRequest struct {
	Lines []CheckoutLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ShipOrderRequest body para POST /api/orders/:id/ship.
type ShipOrderRequest struct {
	TrackingCode string `json:"tracking_code" validate:"required"`
}

// CarrierCallbackRequest body del webhook de la transportadora.
type CarrierCallbackRequest struct {
	TrackingCode string `json:"tracking_code" validate:"required"`
	Event        string `json:"event" validate:"required,oneof=delivered failed"`
}

// OrderLineResponse línea de la orden.
type OrderLineResponse struct {
	VariantID     string          `json:"variant_id"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ReservationID string          `json:"reservation_id"`
}

// OrderResponse salida de una orden de venta.
type OrderResponse struct {
	ID        string              `json:"id"`
	Code      string              `json:"code"`
	UserID    string              `json:"user_id"`
	Status    string              `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	Lines     []OrderLineResponse `json:"lines,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}
