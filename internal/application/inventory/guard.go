package inventory

import (
	"context"

	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
	domaininv "github.com/jhoicas/electro-api/internal/domain/inventory"
	"github.com/jhoicas/electro-api/internal/domain/repository"
)

// ReservationGuard hace atómicos "¿hay sellable suficiente?" y "comprometer la
// reserva" desde el punto de vista del caller. Serializa por variante con el
// VariantLocker (espera acotada) y recalcula sellable con un snapshot fresco
// del libro dentro de la sección crítica; nunca confía en un snapshot del
// caller. Dos Reserve concurrentes sobre la misma variante jamás observan el
// mismo snapshot previo.
type ReservationGuard struct {
	locker VariantLocker
	tx     TxRunner
}

// NewReservationGuard construye el guard.
func NewReservationGuard(locker VariantLocker, tx TxRunner) *ReservationGuard {
	return &ReservationGuard{locker: locker, tx: tx}
}

// Reserve valida y compromete una reserva de venta contra el sellable vivo.
//
//   - qty <= 0                      → ErrInvalidQuantity, sin mutación.
//   - lock no adquirido en el plazo → ErrLockTimeout, reintentable.
//   - qty > sellable                → InsufficientStockError, sin mutación.
//   - onHand negativo en snapshot   → DataIntegrityError (fallo de sistema).
//
// orderID ata la reserva a la orden de venta dueña de la línea.
func (g *ReservationGuard) Reserve(ctx context.Context, variantID string, qty int64, orderID string) (*entity.Movement, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if variantID == "" {
		return nil, domain.ErrInvalidRecord
	}

	release, err := g.locker.Acquire(ctx, variantID)
	if err != nil {
		return nil, err
	}
	defer release()

	var reserved *entity.Movement
	err = g.tx.Run(ctx, func(r TxRepos) error {
		ledger := NewLedger(r.Movements)
		snapshot, err := ledger.Query(variantID)
		if err != nil {
			return err
		}
		avail := domaininv.Calculate(snapshot)
		if err := domaininv.CheckIntegrity(variantID, avail); err != nil {
			return err
		}
		if qty > avail.Sellable {
			return &domain.InsufficientStockError{VariantID: variantID, Requested: qty, Available: avail.Sellable}
		}
		m := &entity.Movement{
			VariantID:  variantID,
			Source:     entity.SourceReservation,
			Status:     entity.StatusActive,
			Quantity:   qty,
			DocumentID: orderID,
		}
		if err := ledger.Append(m); err != nil {
			return err
		}
		reserved = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reserved, nil
}

// Release transiciona la reserva a RELEASED. Es idempotente: liberar una
// reserva ya liberada es un no-op, porque entrega y cancelación pueden
// competir de forma benigna y la liberación debe ocurrir exactamente una vez.
func (g *ReservationGuard) Release(ctx context.Context, reservationID string) error {
	return g.tx.Run(ctx, func(r TxRepos) error {
		return ReleaseInTx(r.Movements, reservationID)
	})
}

// ReleaseInTx implementa la liberación idempotente con el repositorio de una
// transacción en curso; lo comparten el guard y el flujo de órdenes
// (cancelación y entrega liberan dentro de su propia tx).
func ReleaseInTx(movs repository.MovementRepository, reservationID string) error {
	m, err := movs.GetByIDForUpdate(reservationID)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	if m.Source != entity.SourceReservation {
		return domain.ErrInvalidRecord
	}
	if m.Status == entity.StatusReleased {
		return nil // ya liberada: no-op
	}
	return movs.UpdateStatus(reservationID, entity.StatusReleased)
}
