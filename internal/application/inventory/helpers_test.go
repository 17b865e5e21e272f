package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/domain/entity"
	domaininv "github.com/jhoicas/electro-api/internal/domain/inventory"
	"github.com/jhoicas/electro-api/internal/infrastructure/lock"
	"github.com/jhoicas/electro-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Armado del motor de inventario en memoria
// ──────────────────────────────────────────────────────────────────────────────

type engine struct {
	store  *memory.Store
	locker *lock.KeyedLocker
	tx     *memory.TxRunner
}

func newEngine() engine {
	s := memory.NewStore()
	return engine{
		store:  s,
		locker: lock.NewKeyedLocker(500 * time.Millisecond),
		tx:     memory.NewTxRunner(s),
	}
}

// seedVariant registra producto y variante; el precio no importa para el
// motor, solo para el checkout.
func seedVariant(t *testing.T, s *memory.Store, id string) {
	t.Helper()
	productID := "p-" + id
	require.NoError(t, s.Products().Create(&entity.Product{
		ID:     productID,
		Slug:   "producto-" + id,
		Name:   "Producto " + id,
		Active: true,
	}))
	require.NoError(t, s.Variants().Create(&entity.Variant{
		ID:        id,
		ProductID: productID,
		SKU:       "SKU-" + id,
		Price:     decimal.NewFromInt(100),
		Active:    true,
	}))
}

// seedStock ingresa existencia física: un ajuste IN que entra por DRAFT y se
// completa de inmediato.
func seedStock(t *testing.T, s *memory.Store, variantID string, qty int64) {
	t.Helper()
	ledger := inventory.NewLedger(s.Movements())
	m := &entity.Movement{
		VariantID: variantID,
		Source:    entity.SourceAdjustment,
		Kind:      entity.KindIn,
		Quantity:  qty,
	}
	require.NoError(t, ledger.Append(m))
	_, err := ledger.Transition(m.ID, entity.StatusCompleted)
	require.NoError(t, err)
}

// availabilityOf deriva los índices actuales de la variante.
func availabilityOf(t *testing.T, s *memory.Store, variantID string) domaininv.Availability {
	t.Helper()
	movs, err := s.Movements().ListByVariant(variantID)
	require.NoError(t, err)
	return domaininv.Calculate(movs)
}
