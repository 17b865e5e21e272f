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
	infrapdf "github.com/jhoicas/electro-api/internal/infrastructure/pdf"
)

func newDocketUC(e engine, pdfgen inventory.DocketPDFGenerator) *inventory.DocketUseCase {
	return inventory.NewDocketUseCase(
		e.locker, e.tx,
		e.store.Dockets(), e.store.Movements(), e.store.Variants(), e.store.Products(),
		pdfgen,
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateDraft / ReplaceDraftLines
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDraft_DocketYLineasEntranPorBorrador(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	seedVariant(t, e.store, "v2")
	uc := newDocketUC(e, nil)

	d, err := uc.CreateDraft(context.Background(), "user-1", entity.KindIn, "conteo físico", []inventory.LineInput{
		{VariantID: "v1", Quantity: 10},
		{VariantID: "v2", Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, d.Status)
	assert.Equal(t, entity.KindIn, d.Kind)
	assert.NotEmpty(t, d.Code)

	lines, err := e.store.Movements().ListByDocument(d.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, m := range lines {
		assert.Equal(t, entity.StatusDraft, m.Status)
		assert.Equal(t, entity.SourceAdjustment, m.Source)
	}

	// Un borrador no toca la disponibilidad.
	a := availabilityOf(t, e.store, "v1")
	assert.Equal(t, int64(0), a.OnHand)
}

func TestCreateDraft_ValidaLaEntrada(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	_, err := uc.CreateDraft(ctx, "u", "SIDEWAYS", "x", []inventory.LineInput{{VariantID: "v1", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "dirección desconocida")

	_, err = uc.CreateDraft(ctx, "u", entity.KindIn, "x", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.CreateDraft(ctx, "u", entity.KindIn, "x", []inventory.LineInput{{VariantID: "v1", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidRecord, "cantidad no positiva")

	_, err = uc.CreateDraft(ctx, "u", entity.KindIn, "x", []inventory.LineInput{{VariantID: "fantasma", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound, "variante inexistente")
}

func TestReplaceDraftLines_ReemplazaTodasLasLineas(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	seedVariant(t, e.store, "v2")
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindIn, "conteo", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)

	require.NoError(t, uc.ReplaceDraftLines(ctx, d.ID, []inventory.LineInput{{VariantID: "v2", Quantity: 7}}))

	lines, err := e.store.Movements().ListByDocument(d.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "v2", lines[0].VariantID)
	assert.Equal(t, int64(7), lines[0].Quantity)
}

func TestReplaceDraftLines_FueraDeBorradorEsConflicto(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindIn, "conteo", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)
	require.NoError(t, uc.Complete(ctx, d.ID))

	err = uc.ReplaceDraftLines(ctx, d.ID, []inventory.LineInput{{VariantID: "v1", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Complete
// ──────────────────────────────────────────────────────────────────────────────

func TestComplete_FijaTodasLasLineasEnElLibro(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	seedVariant(t, e.store, "v2")
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindIn, "conteo", []inventory.LineInput{
		{VariantID: "v1", Quantity: 10},
		{VariantID: "v2", Quantity: 5},
	})
	require.NoError(t, err)
	require.NoError(t, uc.Complete(ctx, d.ID))

	stored, err := e.store.Dockets().GetByID(d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, stored.Status)

	assert.Equal(t, int64(10), availabilityOf(t, e.store, "v1").OnHand)
	assert.Equal(t, int64(5), availabilityOf(t, e.store, "v2").OnHand)
}

func TestComplete_DosVecesEsIlegal(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindIn, "conteo", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)
	require.NoError(t, uc.Complete(ctx, d.ID))

	err = uc.Complete(ctx, d.ID)
	var ite *domain.IllegalTransitionError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, entity.StatusCompleted, ite.From)

	assert.Equal(t, int64(10), availabilityOf(t, e.store, "v1").OnHand, "no se duplica la entrada")
}

func TestComplete_SalidaQueExcedeLaExistenciaSeRechaza(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	seedStock(t, e.store, "v1", 3)
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindOut, "merma", []inventory.LineInput{{VariantID: "v1", Quantity: 5}})
	require.NoError(t, err)

	err = uc.Complete(ctx, d.ID)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(5), ise.Requested)
	assert.Equal(t, int64(3), ise.Available)

	// Nada se fijó: docket y líneas siguen en borrador, onHand intacto.
	stored, err := e.store.Dockets().GetByID(d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, stored.Status)
	assert.Equal(t, int64(3), availabilityOf(t, e.store, "v1").OnHand)
}

func TestComplete_SalidaValidaConsumeExistencia(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	seedStock(t, e.store, "v1", 8)
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindOut, "merma", []inventory.LineInput{{VariantID: "v1", Quantity: 5}})
	require.NoError(t, err)
	require.NoError(t, uc.Complete(ctx, d.ID))

	assert.Equal(t, int64(3), availabilityOf(t, e.store, "v1").OnHand)
}

func TestComplete_DocketInexistente(t *testing.T) {
	e := newEngine()
	uc := newDocketUC(e, nil)

	assert.ErrorIs(t, uc.Complete(context.Background(), "no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Void / DeleteDraft
// ──────────────────────────────────────────────────────────────────────────────

func TestVoid_AnulaBorradorSinTocarDisponibilidad(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindIn, "conteo", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)
	require.NoError(t, uc.Void(ctx, d.ID))

	stored, err := e.store.Dockets().GetByID(d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusVoid, stored.Status)

	lines, err := e.store.Movements().ListByDocument(d.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1, "la línea anulada queda en la historia")
	assert.Equal(t, entity.StatusVoid, lines[0].Status)

	assert.Equal(t, int64(0), availabilityOf(t, e.store, "v1").OnHand)
}

func TestVoid_CompletadoEsIlegal(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindIn, "conteo", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)
	require.NoError(t, uc.Complete(ctx, d.ID))

	err = uc.Void(ctx, d.ID)
	var ite *domain.IllegalTransitionError
	assert.True(t, errors.As(err, &ite), "lo completado se revierte con un docket compensatorio")
}

func TestDeleteDraft_EliminaDocketYLineas(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindIn, "conteo", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)
	require.NoError(t, uc.DeleteDraft(ctx, d.ID))

	stored, err := e.store.Dockets().GetByID(d.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	lines, err := e.store.Movements().ListByDocument(d.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestDeleteDraft_CompletadoNoSeBorra(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindIn, "conteo", []inventory.LineInput{{VariantID: "v1", Quantity: 10}})
	require.NoError(t, err)
	require.NoError(t, uc.Complete(ctx, d.ID))

	assert.ErrorIs(t, uc.DeleteDraft(ctx, d.ID), domain.ErrNotDeletable)
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestGeneratePDF_ResuelveLineasYGenera(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newDocketUC(e, infrapdf.NewMarotoPDFGenerator())
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindOut, "despacho", []inventory.LineInput{{VariantID: "v1", Quantity: 2}})
	require.NoError(t, err)

	pdf, err := uc.GeneratePDF(ctx, d.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGeneratePDF_SinGeneradorConfigurado(t *testing.T) {
	e := newEngine()
	seedVariant(t, e.store, "v1")
	uc := newDocketUC(e, nil)
	ctx := context.Background()

	d, err := uc.CreateDraft(ctx, "u", entity.KindIn, "conteo", []inventory.LineInput{{VariantID: "v1", Quantity: 1}})
	require.NoError(t, err)

	_, err = uc.GeneratePDF(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
