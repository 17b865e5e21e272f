package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrInvalidRecord: movimiento malformado (cantidad <= 0 o sin variante); se rechaza antes de mutar.
	ErrInvalidRecord = errors.New("registro de movimiento inválido")
	// ErrInvalidQuantity: cantidad solicitada <= 0 en una reserva.
	ErrInvalidQuantity = errors.New("cantidad inválida")
	// ErrNotDeletable: el registro ya salió de su estado editable; se revierte con un ajuste compensatorio.
	ErrNotDeletable = errors.New("el registro ya no puede eliminarse")
	// ErrLockTimeout: no se obtuvo la sección exclusiva de la variante dentro del plazo; seguro reintentar.
	ErrLockTimeout = errors.New("tiempo de espera agotado por contención de inventario")
	// ErrDataIntegrity: invariante violado (ej. existencia física negativa); error de sistema, no de usuario.
	ErrDataIntegrity = errors.New("inconsistencia en los datos de inventario")
)

// IllegalTransitionError indica un cambio de estado no permitido por el ciclo de vida del registro.
// Nunca se corrige silenciosamente al estado legal "más cercano".
type IllegalTransitionError struct {
	RecordID string
	From     string
	To       string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("transición ilegal del registro %s: %s -> %s", e.RecordID, e.From, e.To)
}

// InsufficientStockError es un rechazo de regla de negocio, esperado y visible al usuario.
type InsufficientStockError struct {
	VariantID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para la variante %s: solicitado %d, disponible %d",
		e.VariantID, e.Requested, e.Available)
}

// DataIntegrityError envuelve ErrDataIntegrity con el detalle de la variante afectada.
type DataIntegrityError struct {
	VariantID string
	OnHand    int64
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("existencia física negativa (%d) para la variante %s", e.OnHand, e.VariantID)
}

// Unwrap permite detectar la familia con errors.Is(err, ErrDataIntegrity).
func (e *DataIntegrityError) Unwrap() error { return ErrDataIntegrity }
