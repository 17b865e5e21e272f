package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
)

func newPurchaseUC(e engine) *inventory.PurchaseOrderUseCase {
	return inventory.NewPurchaseOrderUseCase(
		e.locker, e.tx,
		e.store.PurchaseOrders(), e.store.Movements(), e.store.Variants(),
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Approve
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_OrdenPendienteNoCuentaComoIncoming(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newPurchaseUC(e)

	po, err := uc.Create(context.Background(), "u", "Proveedor SAS", "urgente", []inventory.LineInput{
		{VariantID: "v1", Quantity: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, po.Status)
	assert.NotEmpty(t, po.Code)

	lines, err := e.store.Movements().ListByDocument(po.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, entity.SourcePurchase, lines[0].Source)
	assert.Equal(t, entity.StatusPending, lines[0].Status)

	assert.Equal(t, int64(0), availabilityOf(t, e.store, "v1").Incoming, "solo APPROVED es incoming")
}

func TestCreate_ValidaLaEntrada(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newPurchaseUC(e)
	ctx := context.Background()

	_, err := uc.Create(ctx, "u", "", "", []inventory.LineInput{{VariantID: "v1", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "proveedor obligatorio")

	_, err = uc.Create(ctx, "u", "Proveedor", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.Create(ctx, "u", "Proveedor", "", []inventory.LineInput{{VariantID: "fantasma", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound, "variante inexistente")
}

func TestApprove_LasLineasPasanAIncoming(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newPurchaseUC(e)
	ctx := context.Background()

	po, err := uc.Create(ctx, "u", "Proveedor SAS", "", []inventory.LineInput{{VariantID: "v1", Quantity: 50}})
	require.NoError(t, err)
	require.NoError(t, uc.Approve(ctx, po.ID))

	stored, err := e.store.PurchaseOrders().GetByID(po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, stored.Status)

	a := availabilityOf(t, e.store, "v1")
	assert.Equal(t, int64(50), a.Incoming)
	assert.Equal(t, int64(0), a.OnHand, "incoming no es existencia física")
	assert.Equal(t, int64(0), a.Sellable, "incoming no se vende")
}

func TestApprove_DosVecesEsIlegal(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newPurchaseUC(e)
	ctx := context.Background()

	po, err := uc.Create(ctx, "u", "Proveedor", "", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)
	require.NoError(t, uc.Approve(ctx, po.ID))

	err = uc.Approve(ctx, po.ID)
	var ite *domain.IllegalTransitionError
	assert.True(t, errors.As(err, &ite))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_ConservaLaHistoria(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newPurchaseUC(e)
	ctx := context.Background()

	po, err := uc.Create(ctx, "u", "Proveedor", "", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)
	require.NoError(t, uc.Approve(ctx, po.ID))
	require.NoError(t, uc.Cancel(ctx, po.ID))

	lines, err := e.store.Movements().ListByDocument(po.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1, "las líneas canceladas no se borran")
	assert.Equal(t, entity.StatusCancelled, lines[0].Status)

	assert.Equal(t, int64(0), availabilityOf(t, e.store, "v1").Incoming)
}

func TestCancel_DespuesDeRecibirEsIlegal(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newPurchaseUC(e)
	ctx := context.Background()

	po, err := uc.Create(ctx, "u", "Proveedor", "", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)
	require.NoError(t, uc.Approve(ctx, po.ID))
	_, err = uc.Receive(ctx, po.ID, "bodeguero-1")
	require.NoError(t, err)

	err = uc.Cancel(ctx, po.ID)
	var ite *domain.IllegalTransitionError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, entity.StatusReceived, ite.From)
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_EmiteElDocketEmparejado(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	seedVariant(t, e.store, "v2")
	uc := newPurchaseUC(e)
	ctx := context.Background()

	po, err := uc.Create(ctx, "u", "Proveedor", "", []inventory.LineInput{
		{VariantID: "v1", Quantity: 30},
		{VariantID: "v2", Quantity: 12},
	})
	require.NoError(t, err)
	require.NoError(t, uc.Approve(ctx, po.ID))

	paired, err := uc.Receive(ctx, po.ID, "bodeguero-1")
	require.NoError(t, err)
	require.NotNil(t, paired)
	assert.Equal(t, entity.KindIn, paired.Kind)
	assert.Equal(t, entity.StatusCompleted, paired.Status)
	assert.Contains(t, paired.Reason, po.Code)

	stored, err := e.store.PurchaseOrders().GetByID(po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReceived, stored.Status)

	// Recibir mueve la mercancía de "en camino" a existencia física.
	a1 := availabilityOf(t, e.store, "v1")
	assert.Equal(t, int64(30), a1.OnHand)
	assert.Equal(t, int64(0), a1.Incoming)
	assert.Equal(t, int64(30), a1.Sellable)

	a2 := availabilityOf(t, e.store, "v2")
	assert.Equal(t, int64(12), a2.OnHand)

	docketLines, err := e.store.Movements().ListByDocument(paired.ID)
	require.NoError(t, err)
	require.Len(t, docketLines, 2)
	for _, m := range docketLines {
		assert.Equal(t, entity.SourceAdjustment, m.Source)
		assert.Equal(t, entity.KindIn, m.Kind)
		assert.Equal(t, entity.StatusCompleted, m.Status)
	}
}

func TestReceive_SinAprobarEsIlegal(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newPurchaseUC(e)
	ctx := context.Background()

	po, err := uc.Create(ctx, "u", "Proveedor", "", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)

	_, err = uc.Receive(ctx, po.ID, "bodeguero-1")
	var ite *domain.IllegalTransitionError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, entity.StatusPending, ite.From)

	assert.Equal(t, int64(0), availabilityOf(t, e.store, "v1").OnHand)
}

func TestReceive_OrdenInexistente(t *testing.T) {
	e := newEngine()
	uc := newPurchaseUC(e)

	_, err := uc.Receive(context.Background(), "no-existe", "u")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
