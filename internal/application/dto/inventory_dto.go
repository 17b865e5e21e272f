package dto

import "time"

// LineRequest línea de docket u orden de compra.
type LineRequest struct {
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// CreateDocketRequest body para POST /api/dockets.
type CreateDocketRequest struct {
	Kind   string        `json:"kind" validate:"required,oneof=IN OUT"`
	Reason string        `json:"reason"`
	Lines  []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReplaceDocketLinesRequest body para PUT /api/dockets/:id/lines.
type ReplaceDocketLinesRequest struct {
	Lines []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierName string        `json:"supplier_name" validate:"required,min=1,max=200"`
	Note         string        `json:"note"`
	Lines        []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID         string    `json:"id"`
	VariantID  string    `json:"variant_id"`
	Source     string    `json:"source"`
	Kind       string    `json:"kind,omitempty"`
	Status     string    `json:"status"`
	Quantity   int64     `json:"quantity"`
	DocumentID string    `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocketResponse salida de un docket con sus líneas.
type DocketResponse struct {
	ID        string             `json:"id"`
	Code      string             `json:"code"`
	Kind      string             `json:"kind"`
	Status    string             `json:"status"`
	Reason    string             `json:"reason"`
	Lines     []MovementResponse `json:"lines,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// PurchaseOrderResponse salida de una orden de compra con sus líneas.
type PurchaseOrderResponse struct {
	ID           string             `json:"id"`
	Code         string             `json:"code"`
	SupplierName string             `json:"supplier_name"`
	Status       string             `json:"status"`
	Note         string             `json:"note"`
	Lines        []MovementResponse `json:"lines,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
