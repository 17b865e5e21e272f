package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
	"github.com/jhoicas/electro-api/internal/domain/repository"
)

// PurchaseOrderUseCase gobierna el ciclo de la orden de compra:
// PENDING -> APPROVED -> RECEIVED, con cancelación antes de recibir. Solo la
// aprobación convierte las líneas en "en camino"; recibir emite el docket IN
// COMPLETED emparejado en la misma transacción (contrato del colaborador de
// compras: el calculador nunca hace este emparejamiento por sí mismo).
type PurchaseOrderUseCase struct {
	locker   VariantLocker
	tx       TxRunner
	orders   repository.PurchaseOrderRepository
	movs     repository.MovementRepository
	variants repository.VariantRepository
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	locker VariantLocker,
	tx TxRunner,
	orders repository.PurchaseOrderRepository,
	movs repository.MovementRepository,
	variants repository.VariantRepository,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{locker: locker, tx: tx, orders: orders, movs: movs, variants: variants}
}

// Create registra la orden PENDING con sus líneas PENDING.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, createdBy, supplierName, note string, lines []LineInput) (*entity.PurchaseOrder, error) {
	if supplierName == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, ln := range lines {
		if ln.VariantID == "" || ln.Quantity <= 0 {
			return nil, domain.ErrInvalidRecord
		}
		v, err := uc.variants.GetByID(ln.VariantID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, domain.ErrNotFound
		}
	}
	id := uuid.New().String()
	po := &entity.PurchaseOrder{
		ID:           id,
		Code:         docCode("PO", id),
		SupplierName: supplierName,
		Status:       entity.StatusPending,
		Note:         note,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		if err := r.PurchaseOrders.Create(po); err != nil {
			return err
		}
		ledger := NewLedger(r.Movements)
		for _, ln := range lines {
			m := &entity.Movement{
				VariantID:  ln.VariantID,
				Source:     entity.SourcePurchase,
				Status:     entity.StatusPending,
				Quantity:   ln.Quantity,
				DocumentID: po.ID,
			}
			if err := ledger.Append(m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// Approve pasa orden y líneas a APPROVED: desde aquí cuentan como incoming.
func (uc *PurchaseOrderUseCase) Approve(ctx context.Context, poID string) error {
	return uc.transitionAll(ctx, poID, entity.StatusApproved)
}

// Cancel anula la orden antes de recibirla. Las líneas pasan a CANCELLED, no
// se borran: la historia de auditoría se conserva.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, poID string) error {
	return uc.transitionAll(ctx, poID, entity.StatusCancelled)
}

// transitionAll aplica la misma transición a la orden y a todas sus líneas,
// dentro de la sección exclusiva de cada variante involucrada.
func (uc *PurchaseOrderUseCase) transitionAll(ctx context.Context, poID, newStatus string) error {
	variantIDs, err := documentVariants(uc.movs, poID)
	if err != nil {
		return err
	}
	release, err := uc.locker.Acquire(ctx, variantIDs...)
	if err != nil {
		return err
	}
	defer release()

	return uc.tx.Run(ctx, func(r TxRepos) error {
		po, err := r.PurchaseOrders.GetByIDForUpdate(poID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(entity.SourcePurchase, po.Status, newStatus) {
			return &domain.IllegalTransitionError{RecordID: poID, From: po.Status, To: newStatus}
		}
		ledger := NewLedger(r.Movements)
		lines, err := r.Movements.ListByDocument(poID)
		if err != nil {
			return err
		}
		for _, m := range lines {
			if _, err := ledger.Transition(m.ID, newStatus); err != nil {
				return err
			}
		}
		return r.PurchaseOrders.UpdateStatus(poID, newStatus)
	})
}

// Receive cierra la orden (APPROVED -> RECEIVED) y, en la misma transacción,
// crea el docket IN COMPLETED emparejado que ingresa la mercancía a la
// existencia física. Si cualquier paso falla no queda mutación parcial.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, poID, receivedBy string) (*entity.Docket, error) {
	variantIDs, err := documentVariants(uc.movs, poID)
	if err != nil {
		return nil, err
	}
	release, err := uc.locker.Acquire(ctx, variantIDs...)
	if err != nil {
		return nil, err
	}
	defer release()

	var paired *entity.Docket
	err = uc.tx.Run(ctx, func(r TxRepos) error {
		po, err := r.PurchaseOrders.GetByIDForUpdate(poID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(entity.SourcePurchase, po.Status, entity.StatusReceived) {
			return &domain.IllegalTransitionError{RecordID: poID, From: po.Status, To: entity.StatusReceived}
		}
		ledger := NewLedger(r.Movements)
		lines, err := r.Movements.ListByDocument(poID)
		if err != nil {
			return err
		}
		for _, m := range lines {
			if _, err := ledger.Transition(m.ID, entity.StatusReceived); err != nil {
				return err
			}
		}
		if err := r.PurchaseOrders.UpdateStatus(poID, entity.StatusReceived); err != nil {
			return err
		}

		// Docket IN emparejado: entra por DRAFT y se completa aquí mismo.
		id := uuid.New().String()
		d := &entity.Docket{
			ID:        id,
			Code:      docCode("DK", id),
			Kind:      entity.KindIn,
			Status:    entity.StatusDraft,
			Reason:    fmt.Sprintf("recepción de compra %s", po.Code),
			CreatedBy: receivedBy,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := r.Dockets.Create(d); err != nil {
			return err
		}
		for _, ln := range lines {
			m := &entity.Movement{
				VariantID:  ln.VariantID,
				Source:     entity.SourceAdjustment,
				Kind:       entity.KindIn,
				Status:     entity.StatusDraft,
				Quantity:   ln.Quantity,
				DocumentID: d.ID,
			}
			if err := ledger.Append(m); err != nil {
				return err
			}
			if _, err := ledger.Transition(m.ID, entity.StatusCompleted); err != nil {
				return err
			}
		}
		if err := r.Dockets.UpdateStatus(d.ID, entity.StatusCompleted); err != nil {
			return err
		}
		d.Status = entity.StatusCompleted
		paired = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paired, nil
}

// GetWithLines devuelve la orden y sus líneas.
func (uc *PurchaseOrderUseCase) GetWithLines(ctx context.Context, poID string) (*entity.PurchaseOrder, []entity.Movement, error) {
	po, err := uc.orders.GetByID(poID)
	if err != nil {
		return nil, nil, err
	}
	if po == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.movs.ListByDocument(poID)
	if err != nil {
		return nil, nil, err
	}
	return po, lines, nil
}

// List pagina las órdenes de compra.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.orders.List(limit, offset)
}
