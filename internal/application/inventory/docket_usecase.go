package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
	domaininv "github.com/jhoicas/electro-api/internal/domain/inventory"
	"github.com/jhoicas/electro-api/internal/domain/repository"
)

// DocketUseCase gobierna el ciclo de vida del documento de ajuste de bodega:
// DRAFT -> COMPLETED | VOID. Un borrador se edita o borra libremente; completar
// fija todas sus líneas en el libro de forma atómica a nivel de documento.
type DocketUseCase struct {
	locker   VariantLocker
	tx       TxRunner
	dockets  repository.DocketRepository
	movs     repository.MovementRepository
	variants repository.VariantRepository
	products repository.ProductRepository
	pdfgen   DocketPDFGenerator
}

// NewDocketUseCase construye el caso de uso. pdfgen puede ser nil si el
// despliegue no expone la ruta de impresión.
func NewDocketUseCase(
	locker VariantLocker,
	tx TxRunner,
	dockets repository.DocketRepository,
	movs repository.MovementRepository,
	variants repository.VariantRepository,
	products repository.ProductRepository,
	pdfgen DocketPDFGenerator,
) *DocketUseCase {
	return &DocketUseCase{
		locker: locker, tx: tx, dockets: dockets, movs: movs,
		variants: variants, products: products, pdfgen: pdfgen,
	}
}

// LineInput es una línea de docket u orden de compra: variante y cantidad.
type LineInput struct {
	VariantID string
	Quantity  int64
}

func (uc *DocketUseCase) validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, ln := range lines {
		if ln.VariantID == "" || ln.Quantity <= 0 {
			return domain.ErrInvalidRecord
		}
		v, err := uc.variants.GetByID(ln.VariantID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// CreateDraft crea un docket DRAFT con sus líneas como movimientos DRAFT.
func (uc *DocketUseCase) CreateDraft(ctx context.Context, createdBy, kind, reason string, lines []LineInput) (*entity.Docket, error) {
	if kind != entity.KindIn && kind != entity.KindOut {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.validateLines(lines); err != nil {
		return nil, err
	}
	id := uuid.New().String()
	d := &entity.Docket{
		ID:        id,
		Code:      docCode("DK", id),
		Kind:      kind,
		Status:    entity.StatusDraft,
		Reason:    reason,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		if err := r.Dockets.Create(d); err != nil {
			return err
		}
		ledger := NewLedger(r.Movements)
		for _, ln := range lines {
			m := &entity.Movement{
				VariantID:  ln.VariantID,
				Source:     entity.SourceAdjustment,
				Kind:       kind,
				Status:     entity.StatusDraft,
				Quantity:   ln.Quantity,
				DocumentID: d.ID,
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
	return d, nil
}

// ReplaceDraftLines reemplaza las líneas de un borrador. Un docket fuera de
// DRAFT no se edita: ErrConflict.
func (uc *DocketUseCase) ReplaceDraftLines(ctx context.Context, docketID string, lines []LineInput) error {
	if err := uc.validateLines(lines); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(r TxRepos) error {
		d, err := r.Dockets.GetByIDForUpdate(docketID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.Status != entity.StatusDraft {
			return domain.ErrConflict
		}
		ledger := NewLedger(r.Movements)
		old, err := r.Movements.ListByDocument(docketID)
		if err != nil {
			return err
		}
		for _, m := range old {
			if err := ledger.Delete(m.ID); err != nil {
				return err
			}
		}
		for _, ln := range lines {
			m := &entity.Movement{
				VariantID:  ln.VariantID,
				Source:     entity.SourceAdjustment,
				Kind:       d.Kind,
				Status:     entity.StatusDraft,
				Quantity:   ln.Quantity,
				DocumentID: docketID,
			}
			if err := ledger.Append(m); err != nil {
				return err
			}
		}
		return nil
	})
}

// Complete fija el docket en el libro: todas sus líneas pasan a COMPLETED o
// ninguna lo hace. Serializa contra el guard tomando la sección exclusiva de
// cada variante involucrada, y para un docket OUT verifica que la existencia
// física alcance (la salida que excede el inventario es un rechazo de
// negocio, no un onHand negativo silencioso).
func (uc *DocketUseCase) Complete(ctx context.Context, docketID string) error {
	variantIDs, err := documentVariants(uc.movs, docketID)
	if err != nil {
		return err
	}
	release, err := uc.locker.Acquire(ctx, variantIDs...)
	if err != nil {
		return err
	}
	defer release()

	return uc.tx.Run(ctx, func(r TxRepos) error {
		d, err := r.Dockets.GetByIDForUpdate(docketID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(entity.SourceAdjustment, d.Status, entity.StatusCompleted) {
			return &domain.IllegalTransitionError{RecordID: docketID, From: d.Status, To: entity.StatusCompleted}
		}
		ledger := NewLedger(r.Movements)
		lines, err := r.Movements.ListByDocument(docketID)
		if err != nil {
			return err
		}
		if d.Kind == entity.KindOut {
			if err := uc.checkOnHand(ledger, lines); err != nil {
				return err
			}
		}
		for _, m := range lines {
			if _, err := ledger.Transition(m.ID, entity.StatusCompleted); err != nil {
				return err
			}
		}
		return r.Dockets.UpdateStatus(docketID, entity.StatusCompleted)
	})
}

// checkOnHand verifica, por variante, que la salida total del docket no supere
// la existencia física actual (las líneas DRAFT del propio docket aún no cuentan).
func (uc *DocketUseCase) checkOnHand(ledger *Ledger, lines []entity.Movement) error {
	outByVariant := make(map[string]int64)
	for _, m := range lines {
		outByVariant[m.VariantID] += m.Quantity
	}
	for variantID, outQty := range outByVariant {
		snapshot, err := ledger.Query(variantID)
		if err != nil {
			return err
		}
		avail := domaininv.Calculate(snapshot)
		if outQty > avail.OnHand {
			return &domain.InsufficientStockError{VariantID: variantID, Requested: outQty, Available: avail.OnHand}
		}
	}
	return nil
}

// Void anula el borrador completo: docket y líneas pasan a VOID.
func (uc *DocketUseCase) Void(ctx context.Context, docketID string) error {
	return uc.tx.Run(ctx, func(r TxRepos) error {
		d, err := r.Dockets.GetByIDForUpdate(docketID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(entity.SourceAdjustment, d.Status, entity.StatusVoid) {
			return &domain.IllegalTransitionError{RecordID: docketID, From: d.Status, To: entity.StatusVoid}
		}
		ledger := NewLedger(r.Movements)
		lines, err := r.Movements.ListByDocument(docketID)
		if err != nil {
			return err
		}
		for _, m := range lines {
			if _, err := ledger.Transition(m.ID, entity.StatusVoid); err != nil {
				return err
			}
		}
		return r.Dockets.UpdateStatus(docketID, entity.StatusVoid)
	})
}

// DeleteDraft elimina un borrador y sus líneas. Fuera de DRAFT: ErrNotDeletable
// (lo completado se revierte con un docket compensatorio).
func (uc *DocketUseCase) DeleteDraft(ctx context.Context, docketID string) error {
	return uc.tx.Run(ctx, func(r TxRepos) error {
		d, err := r.Dockets.GetByIDForUpdate(docketID)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.Status != entity.StatusDraft {
			return domain.ErrNotDeletable
		}
		ledger := NewLedger(r.Movements)
		lines, err := r.Movements.ListByDocument(docketID)
		if err != nil {
			return err
		}
		for _, m := range lines {
			if err := ledger.Delete(m.ID); err != nil {
				return err
			}
		}
		return r.Dockets.Delete(docketID)
	})
}

// GetWithLines devuelve el docket y sus líneas para consulta y PDF.
func (uc *DocketUseCase) GetWithLines(ctx context.Context, docketID string) (*entity.Docket, []entity.Movement, error) {
	d, err := uc.dockets.GetByID(docketID)
	if err != nil {
		return nil, nil, err
	}
	if d == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.movs.ListByDocument(docketID)
	if err != nil {
		return nil, nil, err
	}
	return d, lines, nil
}

// GeneratePDF arma la representación imprimible del docket: resuelve cada
// línea a SKU y nombre de producto y delega en el generador.
func (uc *DocketUseCase) GeneratePDF(ctx context.Context, docketID string) ([]byte, error) {
	if uc.pdfgen == nil {
		return nil, domain.ErrNotFound
	}
	d, lines, err := uc.GetWithLines(ctx, docketID)
	if err != nil {
		return nil, err
	}
	pdfLines := make([]DocketLineForPDF, 0, len(lines))
	for _, m := range lines {
		v, err := uc.variants.GetByID(m.VariantID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, domain.ErrNotFound
		}
		p, err := uc.products.GetByID(v.ProductID)
		if err != nil {
			return nil, err
		}
		name := ""
		if p != nil {
			name = p.Name
		}
		pdfLines = append(pdfLines, DocketLineForPDF{
			SKU:         v.SKU,
			ProductName: name,
			Quantity:    m.Quantity,
			Status:      m.Status,
		})
	}
	return uc.pdfgen.GenerateDocketPDF(ctx, d, pdfLines)
}

// List pagina los dockets.
func (uc *DocketUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Docket, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.dockets.List(limit, offset)
}

// docCode deriva un consecutivo legible corto a partir del UUID.
func docCode(prefix, id string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(id[:8]))
}
