package entity

import "time"

// Origen del movimiento: qué ciclo de vida gobierna el registro.
const (
	SourceAdjustment  = "ADJUSTMENT"  // línea de docket interno de bodega
	SourcePurchase    = "PURCHASE"    // línea de orden de compra a proveedor
	SourceReservation = "RESERVATION" // línea de orden de venta (reserva)
)

// Dirección de un ajuste. Solo aplica a SourceAdjustment; la dirección de
// compra (entrada) y reserva (salida) está implícita en el origen.
const (
	KindIn  = "IN"
	KindOut = "OUT"
)

// Estados de ajuste (documento de bodega).
const (
	StatusDraft     = "DRAFT"
	StatusCompleted = "COMPLETED"
	StatusVoid      = "VOID"
)

// Estados de línea de orden de compra.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusReceived  = "RECEIVED"
	StatusCancelled = "CANCELLED"
)

// Estados de reserva de venta.
const (
	StatusActive   = "ACTIVE"
	StatusReleased = "RELEASED"
)

// Movement es el hecho inmutable del libro de inventario: un cambio de cantidad
// o una reserva contra exactamente una variante. La cantidad siempre es > 0;
// la dirección la codifica el origen/kind, nunca el signo. El estado solo
// avanza según la tabla de transiciones de su origen.
type Movement struct {
	ID         string
	VariantID  string
	Source     string // ADJUSTMENT | PURCHASE | RESERVATION
	Kind       string // IN | OUT (solo ajustes)
	Status     string
	Quantity   int64
	DocumentID string // docket, orden de compra u orden de venta dueña de la línea
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// transitions: tabla explícita de transiciones legales por origen.
// Los estados terminales no aparecen como llave: no hay resurrección.
var transitions = map[string]map[string][]string{
	SourceAdjustment: {
		StatusDraft: {StatusCompleted, StatusVoid},
	},
	SourcePurchase: {
		StatusPending:  {StatusApproved, StatusCancelled},
		StatusApproved: {StatusReceived, StatusCancelled},
	},
	SourceReservation: {
		StatusActive: {StatusReleased},
	},
}

// entryStatus: estado inicial de cada origen; también el único estado editable/borrable.
var entryStatus = map[string]string{
	SourceAdjustment:  StatusDraft,
	SourcePurchase:    StatusPending,
	SourceReservation: StatusActive,
}

// EntryStatus devuelve el estado inicial del origen ("" si el origen no existe).
func EntryStatus(source string) string {
	return entryStatus[source]
}

// CanTransition responde si el cambio de estado es legal para el origen dado.
func CanTransition(source, from, to string) bool {
	for _, next := range transitions[source][from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal responde si un estado ya no admite transiciones para su origen.
func IsTerminal(source, status string) bool {
	return len(transitions[source][status]) == 0
}

// Deletable responde si el movimiento sigue en su ventana editable.
// Una reserva ACTIVE nunca se borra: se libera (RELEASED).
func (m *Movement) Deletable() bool {
	switch m.Source {
	case SourceAdjustment:
		return m.Status == StatusDraft
	case SourcePurchase:
		return m.Status == StatusPending
	default:
		return false
	}
}
