package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinv "github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
	"github.com/jhoicas/electro-api/internal/domain/repository"
	"github.com/jhoicas/electro-api/pkg/logger"
)

// UseCase coordina la orden de venta contra el motor de inventario: el
// checkout compromete reservas vía el guard, la cancelación y la entrega las
// liberan, y la entrega empareja el docket OUT COMPLETED que consume la
// existencia física (contrato del colaborador de fulfillment).
type UseCase struct {
	guard    *appinv.ReservationGuard
	locker   appinv.VariantLocker
	tx       appinv.TxRunner
	orders   repository.OrderRepository
	waybills repository.WaybillRepository
	variants repository.VariantRepository
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de órdenes.
func NewUseCase(
	guard *appinv.ReservationGuard,
	locker appinv.VariantLocker,
	tx appinv.TxRunner,
	orders repository.OrderRepository,
	waybills repository.WaybillRepository,
	variants repository.VariantRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{guard: guard, locker: locker, tx: tx, orders: orders, waybills: waybills, variants: variants, log: log}
}

// CheckoutLine es una línea del carrito al confirmar.
type CheckoutLine struct {
	VariantID string
	Quantity  int64
}

// Checkout confirma la orden: reserva cada línea vía el guard (cada reserva
// valida contra el sellable vivo, serializada por variante) y persiste la
// orden con sus líneas. Si una reserva falla, las ya comprometidas se liberan
// antes de devolver el error: el checkout es todo-o-nada para el cliente.
func (uc *UseCase) Checkout(ctx context.Context, userID string, lines []CheckoutLine) (*entity.Order, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	type pricedLine struct {
		variant *entity.Variant
		qty     int64
	}
	priced := make([]pricedLine, 0, len(lines))
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		v, err := uc.variants.GetByID(ln.VariantID)
		if err != nil {
			return nil, err
		}
		if v == nil || !v.Active {
			return nil, domain.ErrNotFound
		}
		priced = append(priced, pricedLine{variant: v, qty: ln.Quantity})
	}

	orderID := uuid.New().String()
	var reservationIDs []string
	rollback := func() {
		// Compensación: liberar lo ya reservado. Release es idempotente, así
		// que un reintento del rollback no libera dos veces.
		for _, resID := range reservationIDs {
			if err := uc.guard.Release(context.WithoutCancel(ctx), resID); err != nil {
				uc.log.Error().Err(err).Str("reservation_id", resID).Msg("no se pudo liberar la reserva al compensar checkout")
			}
		}
	}

	orderLines := make([]*entity.OrderLine, 0, len(priced))
	total := decimal.Zero
	for _, pl := range priced {
		mov, err := uc.guard.Reserve(ctx, pl.variant.ID, pl.qty, orderID)
		if err != nil {
			rollback()
			return nil, err
		}
		reservationIDs = append(reservationIDs, mov.ID)
		orderLines = append(orderLines, &entity.OrderLine{
			ID:            uuid.New().String(),
			OrderID:       orderID,
			VariantID:     pl.variant.ID,
			Quantity:      pl.qty,
			UnitPrice:     pl.variant.Price,
			ReservationID: mov.ID,
		})
		total = total.Add(pl.variant.Price.Mul(decimal.NewFromInt(pl.qty)))
	}

	o := &entity.Order{
		ID:        orderID,
		Code:      "SO-" + strings.ToUpper(orderID[:8]),
		UserID:    userID,
		Status:    entity.OrderStatusPending,
		Total:     total,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := uc.tx.Run(ctx, func(r appinv.TxRepos) error {
		if err := r.Orders.Create(o); err != nil {
			return err
		}
		for _, ln := range orderLines {
			if err := r.Orders.CreateLine(ln); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		rollback()
		return nil, err
	}
	return o, nil
}

// Cancel anula la orden y libera sus reservas en una sola transacción; el
// stock vuelve a sellable de inmediato. La liberación es idempotente, así que
// cancelar una orden cuyo pago nunca se confirmó no libera dos veces.
func (uc *UseCase) Cancel(ctx context.Context, orderID string) error {
	return uc.tx.Run(ctx, func(r appinv.TxRepos) error {
		o, err := r.Orders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if o.Status == entity.OrderStatusDelivered || o.Status == entity.OrderStatusCancelled {
			return domain.ErrConflict
		}
		lines, err := r.Orders.ListLines(orderID)
		if err != nil {
			return err
		}
		for _, ln := range lines {
			if err := appinv.ReleaseInTx(r.Movements, ln.ReservationID); err != nil {
				return err
			}
		}
		return r.Orders.UpdateStatus(orderID, entity.OrderStatusCancelled)
	})
}

// Ship despacha la orden: crea el waybill con la transportadora y pasa la
// orden a DELIVERING. La reserva sigue ACTIVE hasta la confirmación de entrega.
func (uc *UseCase) Ship(ctx context.Context, orderID, trackingCode string) (*entity.Waybill, error) {
	if trackingCode == "" {
		return nil, domain.ErrInvalidInput
	}
	w := &entity.Waybill{
		ID:           uuid.New().String(),
		OrderID:      orderID,
		TrackingCode: trackingCode,
		Status:       entity.WaybillStatusShipping,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	err := uc.tx.Run(ctx, func(r appinv.TxRepos) error {
		o, err := r.Orders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if o.Status != entity.OrderStatusPending {
			return domain.ErrConflict
		}
		if err := r.Waybills.Create(w); err != nil {
			return err
		}
		return r.Orders.UpdateStatus(orderID, entity.OrderStatusDelivering)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Eventos aceptados del callback de la transportadora.
const (
	CarrierEventDelivered = "delivered"
	CarrierEventFailed    = "failed"
)

// HandleCarrierCallback procesa el webhook del carrier sobre un waybill.
// "delivered" confirma la entrega; "failed" marca el waybill y cancela la
// orden (libera las reservas para que el stock vuelva a sellable).
func (uc *UseCase) HandleCarrierCallback(ctx context.Context, trackingCode, event string) error {
	w, err := uc.waybills.GetByTrackingCode(trackingCode)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.ErrNotFound
	}
	switch event {
	case CarrierEventDelivered:
		if err := uc.Deliver(ctx, w.OrderID); err != nil {
			return err
		}
		return uc.waybills.UpdateStatus(w.ID, entity.WaybillStatusDelivered)
	case CarrierEventFailed:
		if err := uc.Cancel(ctx, w.OrderID); err != nil {
			return err
		}
		return uc.waybills.UpdateStatus(w.ID, entity.WaybillStatusFailed)
	default:
		return domain.ErrInvalidInput
	}
}

// Deliver confirma la entrega: libera las reservas y crea el docket OUT
// COMPLETED emparejado que consume la existencia física, todo en una
// transacción bajo la sección exclusiva de las variantes. Así la reserva sale
// de "reserved" y onHand baja en el mismo instante: sellable queda correcto.
func (uc *UseCase) Deliver(ctx context.Context, orderID string) error {
	lines, err := uc.orders.ListLines(orderID)
	if err != nil {
		return err
	}
	variantIDs := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, ln := range lines {
		if !seen[ln.VariantID] {
			seen[ln.VariantID] = true
			variantIDs = append(variantIDs, ln.VariantID)
		}
	}
	release, err := uc.locker.Acquire(ctx, variantIDs...)
	if err != nil {
		return err
	}
	defer release()

	return uc.tx.Run(ctx, func(r appinv.TxRepos) error {
		o, err := r.Orders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if o.Status == entity.OrderStatusDelivered {
			return nil // confirmación repetida del carrier: no-op
		}
		if o.Status != entity.OrderStatusDelivering && o.Status != entity.OrderStatusPending {
			return domain.ErrConflict
		}
		txLines, err := r.Orders.ListLines(orderID)
		if err != nil {
			return err
		}
		ledger := appinv.NewLedger(r.Movements)
		docketID := uuid.New().String()
		d := &entity.Docket{
			ID:        docketID,
			Code:      "DK-" + strings.ToUpper(docketID[:8]),
			Kind:      entity.KindOut,
			Status:    entity.StatusDraft,
			Reason:    fmt.Sprintf("despacho de orden %s", o.Code),
			CreatedBy: o.UserID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := r.Dockets.Create(d); err != nil {
			return err
		}
		for _, ln := range txLines {
			if err := appinv.ReleaseInTx(r.Movements, ln.ReservationID); err != nil {
				return err
			}
			m := &entity.Movement{
				VariantID:  ln.VariantID,
				Source:     entity.SourceAdjustment,
				Kind:       entity.KindOut,
				Status:     entity.StatusDraft,
				Quantity:   ln.Quantity,
				DocumentID: docketID,
			}
			if err := ledger.Append(m); err != nil {
				return err
			}
			if _, err := ledger.Transition(m.ID, entity.StatusCompleted); err != nil {
				return err
			}
		}
		if err := r.Dockets.UpdateStatus(docketID, entity.StatusCompleted); err != nil {
			return err
		}
		return r.Orders.UpdateStatus(orderID, entity.OrderStatusDelivered)
	})
}

// GetWithLines devuelve la orden con sus líneas.
func (uc *UseCase) GetWithLines(ctx context.Context, orderID string) (*entity.Order, []entity.OrderLine, error) {
	o, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if o == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.orders.ListLines(orderID)
	if err != nil {
		return nil, nil, err
	}
	return o, lines, nil
}

// ListByUser pagina las órdenes de un usuario.
func (uc *UseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.orders.ListByUser(userID, limit, offset)
}
