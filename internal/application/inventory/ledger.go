package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
	"github.com/jhoicas/electro-api/internal/domain/repository"
)

// Ledger aplica los invariantes del libro de movimientos sobre un
// MovementRepository: cantidades positivas, estados de entrada, transiciones
// legales y ventana de borrado. Se construye con el repositorio atado al pool
// (lecturas) o a una transacción (mutaciones de los ciclos de vida).
type Ledger struct {
	movs repository.MovementRepository
}

// NewLedger construye el libro sobre el repositorio dado.
func NewLedger(movs repository.MovementRepository) *Ledger {
	return &Ledger{movs: movs}
}

// Append inserta un movimiento nuevo en la partición de su variante.
// El registro siempre entra por el estado inicial de su origen; si Status
// viene vacío se asigna. Falla con ErrInvalidRecord ante cantidad <= 0,
// variante ausente, origen desconocido o dirección inválida.
func (l *Ledger) Append(m *entity.Movement) error {
	if m.VariantID == "" || m.Quantity <= 0 {
		return domain.ErrInvalidRecord
	}
	entry := entity.EntryStatus(m.Source)
	if entry == "" {
		return domain.ErrInvalidRecord
	}
	if m.Status == "" {
		m.Status = entry
	}
	if m.Status != entry {
		return domain.ErrInvalidRecord
	}
	switch m.Source {
	case entity.SourceAdjustment:
		if m.Kind != entity.KindIn && m.Kind != entity.KindOut {
			return domain.ErrInvalidRecord
		}
	default:
		if m.Kind != "" {
			return domain.ErrInvalidRecord
		}
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return l.movs.Create(m)
}

// Transition aplica un cambio de estado legal según la tabla del origen del
// registro. Falla con IllegalTransitionError si el movimiento no está
// permitido desde el estado actual; nunca lo fuerza al estado legal más
// cercano. Devuelve el movimiento ya actualizado.
func (l *Ledger) Transition(recordID, newStatus string) (*entity.Movement, error) {
	m, err := l.movs.GetByIDForUpdate(recordID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(m.Source, m.Status, newStatus) {
		return nil, &domain.IllegalTransitionError{RecordID: recordID, From: m.Status, To: newStatus}
	}
	if err := l.movs.UpdateStatus(recordID, newStatus); err != nil {
		return nil, err
	}
	m.Status = newStatus
	m.UpdatedAt = time.Now()
	return m, nil
}

// Query devuelve el snapshot de la partición de la variante: finito,
// reiniciable y sin efectos secundarios.
func (l *Ledger) Query(variantID string) ([]entity.Movement, error) {
	return l.movs.ListByVariant(variantID)
}

// documentVariants devuelve, sin duplicados, las variantes tocadas por las
// líneas de un documento; es el conjunto a bloquear antes de mutarlo.
func documentVariants(movs repository.MovementRepository, documentID string) ([]string, error) {
	lines, err := movs.ListByDocument(documentID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(lines))
	var ids []string
	for _, m := range lines {
		if !seen[m.VariantID] {
			seen[m.VariantID] = true
			ids = append(ids, m.VariantID)
		}
	}
	return ids, nil
}

// Delete elimina un registro que sigue en su ventana editable (DRAFT de
// ajuste, PENDING de compra). Fuera de ella falla con ErrNotDeletable: lo
// hecho se revierte con un movimiento compensatorio, no borrando historia.
func (l *Ledger) Delete(recordID string) error {
	m, err := l.movs.GetByIDForUpdate(recordID)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	if !m.Deletable() {
		return domain.ErrNotDeletable
	}
	return l.movs.Delete(recordID)
}
