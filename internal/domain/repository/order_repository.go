package repository

import "github.com/jhoicas/electro-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order y sus líneas (DIP).
type OrderRepository interface {
	Create(o *entity.Order) error
	CreateLine(line *entity.OrderLine) error
	GetByID(id string) (*entity.Order, error)
	GetByIDForUpdate(id string) (*entity.Order, error)
	ListLines(orderID string) ([]entity.OrderLine, error)
	UpdateStatus(id, status string) error
	ListByUser(userID string, limit, offset int) ([]*entity.Order, error)
}

// WaybillRepository define el puerto de persistencia para Waybill (DIP).
type WaybillRepository interface {
	Create(w *entity.Waybill) error
	GetByTrackingCode(code string) (*entity.Waybill, error)
	GetByOrderID(orderID string) (*entity.Waybill, error)
	UpdateStatus(id, status string) error
}
