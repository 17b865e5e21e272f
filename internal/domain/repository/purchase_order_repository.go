package repository

import "github.com/jhoicas/electro-api/internal/domain/entity"

// PurchaseOrderRepository define el puerto de persistencia para PurchaseOrder (DIP).
// Las líneas viven en MovementRepository (DocumentID = orden de compra).
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	GetByIDForUpdate(id string) (*entity.PurchaseOrder, error)
	UpdateStatus(id, status string) error
	List(limit, offset int) ([]*entity.PurchaseOrder, error)
}
