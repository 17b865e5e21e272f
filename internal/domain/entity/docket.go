package entity

import "time"

// Docket es el documento interno de ajuste de bodega (entrada o salida),
// independiente de ventas y compras. Sus líneas son movimientos de ajuste
// (SourceAdjustment) con DocumentID = Docket.ID; el estado del docket y el de
// sus líneas avanzan juntos: completar es atómico a nivel de documento.
type Docket struct {
	ID        string
	Code      string // consecutivo legible, ej. DK-000123
	Kind      string // IN | OUT
	Status    string // DRAFT | COMPLETED | VOID
	Reason    string // motivo del ajuste: conteo, merma, recepción de compra, despacho...
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
