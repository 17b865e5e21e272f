package entity

import "time"

// PurchaseOrder es el acuerdo con un proveedor por mercancía entrante. Sus
// líneas son movimientos SourcePurchase con DocumentID = PurchaseOrder.ID.
// Solo las líneas APPROVED cuentan como "en camino"; al recibirse, el flujo de
// recepción crea el docket IN COMPLETED emparejado.
type PurchaseOrder struct {
	ID           string
	Code         string // consecutivo legible, ej. PO-000045
	SupplierName string
	Status       string // PENDING | APPROVED | RECEIVED | CANCELLED
	Note         string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
