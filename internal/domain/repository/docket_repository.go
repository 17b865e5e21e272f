package repository

import "github.com/jhoicas/electro-api/internal/domain/entity"

// DocketRepository define el puerto de persistencia para Docket (DIP).
// Las líneas del docket viven en MovementRepository (DocumentID = docket).
type DocketRepository interface {
	Create(d *entity.Docket) error
	GetByID(id string) (*entity.Docket, error)
	// GetByIDForUpdate bloquea la fila del docket dentro de la transacción.
	GetByIDForUpdate(id string) (*entity.Docket, error)
	UpdateStatus(id, status string) error
	List(limit, offset int) ([]*entity.Docket, error)
	Delete(id string) error
}
