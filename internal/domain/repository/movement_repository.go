package repository

import "github.com/jhoicas/electro-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia del libro de movimientos
// (DIP). La partición de una variante es el conjunto de sus movimientos; las
// lecturas son snapshots finitos y sin efectos secundarios.
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// GetByIDForUpdate bloquea la fila del movimiento (SELECT FOR UPDATE);
	// solo tiene sentido dentro de una transacción.
	GetByIDForUpdate(id string) (*entity.Movement, error)
	// ListByVariant devuelve la partición completa de la variante, ordenada
	// por fecha de creación ascendente.
	ListByVariant(variantID string) ([]entity.Movement, error)
	ListByDocument(documentID string) ([]entity.Movement, error)
	UpdateStatus(id, status string) error
	Delete(id string) error
}
