package repository

import "github.com/jhoicas/electro-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySlug(slug string) (*entity.Product, error)
	Update(product *entity.Product) error
	// List filtra por término ya normalizado (sin tildes, minúsculas); term
	// vacío lista todo.
	List(term string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}

// VariantRepository define el puerto de persistencia para Variant (DIP).
type VariantRepository interface {
	Create(v *entity.Variant) error
	GetByID(id string) (*entity.Variant, error)
	GetByProductAndSKU(productID, sku string) (*entity.Variant, error)
	Update(v *entity.Variant) error
	ListByProduct(productID string) ([]*entity.Variant, error)
}
