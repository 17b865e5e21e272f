package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/domain"
	domaininv "github.com/jhoicas/electro-api/internal/domain/inventory"
	"github.com/jhoicas/electro-api/pkg/logger"
)

func newAvailabilityUC(e engine) *inventory.AvailabilityUseCase {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return inventory.NewAvailabilityUseCase(e.store.Movements(), e.store.Variants(), log)
}

func TestVariantAvailability_DerivaLosIndices(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	seedStock(t, e.store, "v1", 20)
	uc := newAvailabilityUC(e)

	guard := inventory.NewReservationGuard(e.locker, e.tx)
	_, err := guard.Reserve(context.Background(), "v1", 6, "order-1")
	require.NoError(t, err)

	a, err := uc.VariantAvailability(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, domaininv.Availability{OnHand: 20, Reserved: 6, Incoming: 0, Sellable: 14}, a)
}

func TestVariantAvailability_VarianteInexistente(t *testing.T) {
	e := newEngine()
	uc := newAvailabilityUC(e)

	_, err := uc.VariantAvailability(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La agregación por producto es la suma simple de sus variantes.
func TestProductAvailability_SumaLasVariantes(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	seedStock(t, e.store, "v1", 10)
	uc := newAvailabilityUC(e)

	// segunda variante del mismo producto que v1
	v1, err := e.store.Variants().GetByID("v1")
	require.NoError(t, err)
	sibling := *v1
	sibling.ID = "v1b"
	sibling.SKU = "SKU-v1b"
	require.NoError(t, e.store.Variants().Create(&sibling))
	seedStock(t, e.store, "v1b", 5)

	total, perVariant, err := uc.ProductAvailability(context.Background(), v1.ProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), total.OnHand)
	assert.Equal(t, int64(15), total.Sellable)
	require.Len(t, perVariant, 2)
	assert.Equal(t, int64(10), perVariant["v1"].OnHand)
	assert.Equal(t, int64(5), perVariant["v1b"].OnHand)
}

func TestVariantMovements_DevuelveLaHistoria(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	seedStock(t, e.store, "v1", 10)
	uc := newAvailabilityUC(e)

	movs, err := uc.VariantMovements(context.Background(), "v1")
	require.NoError(t, err)
	assert.Len(t, movs, 1)

	_, err = uc.VariantMovements(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
