package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta. La reserva de cada línea vive en el libro de
// movimientos; la orden solo coordina sus transiciones terminales.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusDelivering = "DELIVERING"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// Order es la orden de venta confirmada en checkout.
type Order struct {
	ID        string
	Code      string // consecutivo legible, ej. SO-000789
	UserID    string
	Status    string
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine asocia una línea de la orden con su reserva en el libro.
type OrderLine struct {
	ID            string
	OrderID       string
	VariantID     string
	Quantity      int64
	UnitPrice     decimal.Decimal
	ReservationID string // ID del movimiento RESERVATION creado por el guard
}

// Estados del waybill (guía de transporte del carrier).
const (
	WaybillStatusShipping  = "SHIPPING"
	WaybillStatusDelivered = "DELIVERED"
	WaybillStatusFailed    = "FAILED"
)

// Waybill registra la consignación física de una orden con la transportadora.
// El callback del carrier lo actualiza y dispara las transiciones terminales
// de la orden y de sus reservas.
type Waybill struct {
	ID           string
	OrderID      string
	TrackingCode string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
