package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/electro-api/internal/domain/inventory"
)

// CreateProductRequest entrada para crear un producto del catálogo.
type CreateProductRequest struct {
	Slug        string `json:"slug" validate:"required,min=1,max=100"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Brand       *string `json:"brand"`
	Category    *string `json:"category"`
	Active      *bool   `json:"active"`
}

// CreateVariantRequest entrada para crear una variante (SKU) de un producto.
type CreateVariantRequest struct {
	SKU   string          `json:"sku" validate:"required,min=1,max=100"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}

// VariantResponse salida de una variante con su disponibilidad derivada.
type VariantResponse struct {
	ID           string                  `json:"id"`
	ProductID    string                  `json:"product_id"`
	SKU          string                  `json:"sku"`
	Price        decimal.Decimal         `json:"price"`
	Active       bool                    `json:"active"`
	Availability *inventory.Availability `json:"availability,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

// ProductResponse salida de un producto con sus variantes y disponibilidad agregada.
type ProductResponse struct {
	ID           string                  `json:"id"`
	Slug         string                  `json:"slug"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	Brand        string                  `json:"brand"`
	Category     string                  `json:"category"`
	Active       bool                    `json:"active"`
	Variants     []VariantResponse       `json:"variants,omitempty"`
	Availability *inventory.Availability `json:"availability,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}
