package entity

import "time"

// Product agrupa variantes para consultas agregadas del catálogo. El stock no
// vive aquí: se deriva del libro de movimientos por variante.
type Product struct {
	ID          string
	Slug        string // único, para URLs de la tienda
	Name        string
	Description string
	Brand       string
	Category    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
