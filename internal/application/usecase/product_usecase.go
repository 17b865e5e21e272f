package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/electro-api/internal/application/dto"
	appinv "github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
	domaininv "github.com/jhoicas/electro-api/internal/domain/inventory"
	"github.com/jhoicas/electro-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD del catálogo: productos y variantes.
// El stock nunca se edita aquí: las cifras de disponibilidad se derivan del
// libro de movimientos en cada lectura.
type ProductUseCase struct {
	products     repository.ProductRepository
	variants     repository.VariantRepository
	availability *appinv.AvailabilityUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, variants repository.VariantRepository, availability *appinv.AvailabilityUseCase) *ProductUseCase {
	return &ProductUseCase{products: products, variants: variants, availability: availability}
}

// Create crea un producto del catálogo.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Slug == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.products.GetBySlug(in.Slug)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Slug:        in.Slug,
		Name:        in.Name,
		Description: in.Description,
		Brand:       in.Brand,
		Category:    in.Category,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.products.Create(p); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, p, false)
}

// GetByID obtiene un producto con variantes y disponibilidad derivada.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, p, true)
}

// GetBySlug obtiene un producto por su slug de tienda.
func (uc *ProductUseCase) GetBySlug(ctx context.Context, slug string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, p, true)
}

// Update actualiza los campos editables de un producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = time.Now()
	if err := uc.products.Update(p); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, p, false)
}

// List pagina el catálogo; term busca por nombre sin distinguir tildes.
func (uc *ProductUseCase) List(ctx context.Context, term string, limit, offset int) ([]*dto.ProductResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	products, err := uc.products.List(normalizeTerm(term), limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp, err := uc.toResponse(ctx, p, true)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// CreateVariant agrega una variante (SKU) a un producto existente.
func (uc *ProductUseCase) CreateVariant(ctx context.Context, productID string, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	if in.SKU == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	existing, _ := uc.variants.GetByProductAndSKU(productID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	v := &entity.Variant{
		ID:        uuid.New().String(),
		ProductID: productID,
		SKU:       in.SKU,
		Price:     in.Price,
		Cost:      in.Cost,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.variants.Create(v); err != nil {
		return nil, err
	}
	resp := toVariantResponse(v, nil)
	return &resp, nil
}

// toResponse arma la respuesta; withAvailability adjunta las cifras derivadas.
func (uc *ProductUseCase) toResponse(ctx context.Context, p *entity.Product, withAvailability bool) (*dto.ProductResponse, error) {
	resp := &dto.ProductResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Category:    p.Category,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	variants, err := uc.variants.ListByProduct(p.ID)
	if err != nil {
		return nil, err
	}
	if !withAvailability {
		for _, v := range variants {
			resp.Variants = append(resp.Variants, toVariantResponse(v, nil))
		}
		return resp, nil
	}
	total, perVariant, err := uc.availability.ProductAvailability(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		avail := perVariant[v.ID]
		resp.Variants = append(resp.Variants, toVariantResponse(v, &avail))
	}
	resp.Availability = &total
	return resp, nil
}

func toVariantResponse(v *entity.Variant, avail *domaininv.Availability) dto.VariantResponse {
	return dto.VariantResponse{
		ID:           v.ID,
		ProductID:    v.ProductID,
		SKU:          v.SKU,
		Price:        v.Price,
		Active:       v.Active,
		Availability: avail,
		CreatedAt:    v.CreatedAt,
	}
}
