package inventory

import (
	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
)

// Availability son los cuatro índices derivados del libro de una variante.
//
//	OnHand   = Σ ajustes IN COMPLETED − Σ ajustes OUT COMPLETED
//	Reserved = Σ reservas ACTIVE
//	Incoming = Σ compras APPROVED
//	Sellable = max(0, OnHand − Reserved)
//
// OnHand puede quedar negativo si la contabilidad upstream está mal; no se
// recorta aquí porque eso ocultaría el problema. Sellable sí se recorta a 0.
type Availability struct {
	OnHand   int64 `json:"on_hand"`
	Reserved int64 `json:"reserved"`
	Incoming int64 `json:"incoming"`
	Sellable int64 `json:"sellable"`
}

// Calculate reduce el snapshot de movimientos de una variante a sus índices.
// Es un fold puro sobre un multiconjunto: idempotente e independiente del
// orden de los registros. Un snapshot vacío da {0,0,0,0}.
func Calculate(movements []entity.Movement) Availability {
	var a Availability
	for _, m := range movements {
		switch m.Source {
		case entity.SourceAdjustment:
			if m.Status != entity.StatusCompleted {
				continue // DRAFT y VOID nunca afectan la existencia física
			}
			if m.Kind == entity.KindIn {
				a.OnHand += m.Quantity
			} else {
				a.OnHand -= m.Quantity
			}
		case entity.SourcePurchase:
			if m.Status == entity.StatusApproved {
				a.Incoming += m.Quantity
			}
		case entity.SourceReservation:
			if m.Status == entity.StatusActive {
				a.Reserved += m.Quantity
			}
		}
	}
	a.Sellable = a.OnHand - a.Reserved
	if a.Sellable < 0 {
		a.Sellable = 0
	}
	return a
}

// Add suma índice a índice; la agregación por producto es la suma simple de
// sus variantes, sin sustitución cruzada.
func (a Availability) Add(b Availability) Availability {
	return Availability{
		OnHand:   a.OnHand + b.OnHand,
		Reserved: a.Reserved + b.Reserved,
		Incoming: a.Incoming + b.Incoming,
		Sellable: a.Sellable + b.Sellable,
	}
}

// CheckIntegrity devuelve DataIntegrityError si la existencia física quedó
// negativa. Es un fallo de sistema para alertar, no un error de usuario.
func CheckIntegrity(variantID string, a Availability) error {
	if a.OnHand < 0 {
		return &domain.DataIntegrityError{VariantID: variantID, OnHand: a.OnHand}
	}
	return nil
}
