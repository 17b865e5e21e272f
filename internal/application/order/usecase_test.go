package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/application/order"
	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
	domaininv "github.com/jhoicas/electro-api/internal/domain/inventory"
	"github.com/jhoicas/electro-api/internal/infrastructure/lock"
	"github.com/jhoicas/electro-api/internal/infrastructure/memory"
	"github.com/jhoicas/electro-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store *memory.Store
	uc    *order.UseCase
}

func newFixture() fixture {
	s := memory.NewStore()
	locker := lock.NewKeyedLocker(500 * time.Millisecond)
	tx := memory.NewTxRunner(s)
	guard := appinv.NewReservationGuard(locker, tx)
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := order.NewUseCase(guard, locker, tx, s.Orders(), s.Waybills(), s.Variants(), log)
	return fixture{store: s, uc: uc}
}

// seedVariant registra la variante con precio y, si qty > 0, su existencia
// física inicial (ajuste IN completado).
func seedVariant(t *testing.T, s *memory.Store, id string, price int64, qty int64) {
	t.Helper()
	productID := "p-" + id
	require.NoError(t, s.Products().Create(&entity.Product{
		ID: productID, Slug: "producto-" + id, Name: "Producto " + id, Active: true,
	}))
	require.NoError(t, s.Variants().Create(&entity.Variant{
		ID: id, ProductID: productID, SKU: "SKU-" + id,
		Price: decimal.NewFromInt(price), Active: true,
	}))
	if qty > 0 {
		ledger := appinv.NewLedger(s.Movements())
		m := &entity.Movement{VariantID: id, Source: entity.SourceAdjustment, Kind: entity.KindIn, Quantity: qty}
		require.NoError(t, ledger.Append(m))
		_, err := ledger.Transition(m.ID, entity.StatusCompleted)
		require.NoError(t, err)
	}
}

func avail(t *testing.T, s *memory.Store, variantID string) domaininv.Availability {
	t.Helper()
	movs, err := s.Movements().ListByVariant(variantID)
	require.NoError(t, err)
	return domaininv.Calculate(movs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_ReservaYPersisteLaOrden(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 10)
	seedVariant(t, f.store, "v2", 50, 10)

	o, err := f.uc.Checkout(context.Background(), "user-1", []order.CheckoutLine{
		{VariantID: "v1", Quantity: 2},
		{VariantID: "v2", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(250)), "total = 2*100 + 1*50, fue %s", o.Total)

	lines, err := f.store.Orders().ListLines(o.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, ln := range lines {
		res, err := f.store.Movements().GetByID(ln.ReservationID)
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, entity.StatusActive, res.Status)
		assert.Equal(t, o.ID, res.DocumentID, "la reserva queda atada a la orden")
	}

	assert.Equal(t, int64(8), avail(t, f.store, "v1").Sellable)
	assert.Equal(t, int64(9), avail(t, f.store, "v2").Sellable)
}

// Si una línea no alcanza, las reservas ya comprometidas se liberan.
func TestCheckout_TodoONada(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 5)
	seedVariant(t, f.store, "v2", 50, 0)

	_, err := f.uc.Checkout(context.Background(), "user-1", []order.CheckoutLine{
		{VariantID: "v1", Quantity: 2},
		{VariantID: "v2", Quantity: 1},
	})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "v2", ise.VariantID)

	a := avail(t, f.store, "v1")
	assert.Equal(t, int64(0), a.Reserved, "la reserva de v1 se compensó")
	assert.Equal(t, int64(5), a.Sellable)
}

func TestCheckout_CompensaSiPersistirFalla(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 5)
	f.store.FailOrderCreate = errors.New("fallo simulado de persistencia")

	_, err := f.uc.Checkout(context.Background(), "user-1", []order.CheckoutLine{
		{VariantID: "v1", Quantity: 2},
	})
	require.Error(t, err)

	a := avail(t, f.store, "v1")
	assert.Equal(t, int64(0), a.Reserved)
	assert.Equal(t, int64(5), a.Sellable)
}

func TestCheckout_ValidaLaEntrada(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 5)
	ctx := context.Background()

	_, err := f.uc.Checkout(ctx, "user-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "carrito vacío")

	_, err = f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "fantasma", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckout_VarianteInactivaNoSeVende(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 5)
	v, err := f.store.Variants().GetByID("v1")
	require.NoError(t, err)
	v.Active = false
	require.NoError(t, f.store.Variants().Update(v))

	_, err = f.uc.Checkout(context.Background(), "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_LiberaLasReservas(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 10)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 4}})
	require.NoError(t, err)
	require.NoError(t, f.uc.Cancel(ctx, o.ID))

	stored, err := f.store.Orders().GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, stored.Status)

	a := avail(t, f.store, "v1")
	assert.Equal(t, int64(0), a.Reserved)
	assert.Equal(t, int64(10), a.Sellable, "el stock vuelve a sellable de inmediato")
}

func TestCancel_OrdenTerminalEsConflicto(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 10)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, f.uc.Cancel(ctx, o.ID))

	assert.ErrorIs(t, f.uc.Cancel(ctx, o.ID), domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ship / callback del carrier
// ──────────────────────────────────────────────────────────────────────────────

func TestShip_CreaWaybillYPasaADelivering(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 10)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 2}})
	require.NoError(t, err)

	w, err := f.uc.Ship(ctx, o.ID, "TRACK-001")
	require.NoError(t, err)
	assert.Equal(t, entity.WaybillStatusShipping, w.Status)

	stored, err := f.store.Orders().GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivering, stored.Status)

	// La reserva sigue activa hasta confirmar la entrega.
	assert.Equal(t, int64(2), avail(t, f.store, "v1").Reserved)
}

func TestShip_SoloOrdenesPendientes(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 10)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, f.uc.Cancel(ctx, o.ID))

	_, err = f.uc.Ship(ctx, o.ID, "TRACK-001")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCallback_EntregaConsumeLaExistencia(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 10)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 3}})
	require.NoError(t, err)
	_, err = f.uc.Ship(ctx, o.ID, "TRACK-001")
	require.NoError(t, err)

	require.NoError(t, f.uc.HandleCarrierCallback(ctx, "TRACK-001", order.CarrierEventDelivered))

	stored, err := f.store.Orders().GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, stored.Status)

	w, err := f.store.Waybills().GetByTrackingCode("TRACK-001")
	require.NoError(t, err)
	assert.Equal(t, entity.WaybillStatusDelivered, w.Status)

	// La reserva se liberó y el docket OUT emparejado bajó onHand en el
	// mismo instante: sellable queda correcto, sin ventana de doble conteo.
	a := avail(t, f.store, "v1")
	assert.Equal(t, int64(7), a.OnHand)
	assert.Equal(t, int64(0), a.Reserved)
	assert.Equal(t, int64(7), a.Sellable)
}

// Confirmación repetida del carrier: no-op, no consume dos veces.
func TestCallback_EntregaRepetidaEsNoOp(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 10)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 3}})
	require.NoError(t, err)
	_, err = f.uc.Ship(ctx, o.ID, "TRACK-001")
	require.NoError(t, err)

	require.NoError(t, f.uc.HandleCarrierCallback(ctx, "TRACK-001", order.CarrierEventDelivered))
	require.NoError(t, f.uc.HandleCarrierCallback(ctx, "TRACK-001", order.CarrierEventDelivered))

	assert.Equal(t, int64(7), avail(t, f.store, "v1").OnHand, "la segunda confirmación no emite otro docket")
}

func TestCallback_FalloCancelaYLibera(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 10)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 3}})
	require.NoError(t, err)
	_, err = f.uc.Ship(ctx, o.ID, "TRACK-001")
	require.NoError(t, err)

	require.NoError(t, f.uc.HandleCarrierCallback(ctx, "TRACK-001", order.CarrierEventFailed))

	stored, err := f.store.Orders().GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, stored.Status)

	w, err := f.store.Waybills().GetByTrackingCode("TRACK-001")
	require.NoError(t, err)
	assert.Equal(t, entity.WaybillStatusFailed, w.Status)

	a := avail(t, f.store, "v1")
	assert.Equal(t, int64(10), a.OnHand, "nada salió de bodega")
	assert.Equal(t, int64(10), a.Sellable)
}

func TestCallback_TrackingDesconocido(t *testing.T) {
	f := newFixture()
	err := f.uc.HandleCarrierCallback(context.Background(), "TRACK-XXX", order.CarrierEventDelivered)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCallback_EventoDesconocido(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 10)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 1}})
	require.NoError(t, err)
	_, err = f.uc.Ship(ctx, o.ID, "TRACK-001")
	require.NoError(t, err)

	err = f.uc.HandleCarrierCallback(ctx, "TRACK-001", "lost-in-transit")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetWithLines_YListByUser(t *testing.T) {
	f := newFixture()
	seedVariant(t, f.store, "v1", 100, 10)
	ctx := context.Background()

	o, err := f.uc.Checkout(ctx, "user-1", []order.CheckoutLine{{VariantID: "v1", Quantity: 2}})
	require.NoError(t, err)

	got, lines, err := f.uc.GetWithLines(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity)

	mine, err := f.uc.ListByUser(ctx, "user-1", 20, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	others, err := f.uc.ListByUser(ctx, "user-2", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, others)
}
