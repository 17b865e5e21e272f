package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/electro-api/internal/domain/entity"
	"github.com/jhoicas/electro-api/internal/domain/repository"
)

var _ repository.WaybillRepository = (*WaybillRepo)(nil)

// WaybillRepo implementación sobre PostgreSQL (usable con pool o tx).
type WaybillRepo struct {
	q Querier
}

// NewWaybillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWaybillRepository(q Querier) *WaybillRepo {
	return &WaybillRepo{q: q}
}

const waybillColumns = `id, order_id, tracking_code, status, created_at, updated_at`

// Create persiste un waybill.
func (r *WaybillRepo) Create(w *entity.Waybill) error {
	query := `
		INSERT INTO waybills (` + waybillColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		w.ID, w.OrderID, w.TrackingCode, w.Status, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create waybill: tracking duplicado: %w", err)
		}
		return fmt.Errorf("create waybill: %w", err)
	}
	return nil
}

// GetByTrackingCode busca el waybill por el código que reporta la transportadora.
func (r *WaybillRepo) GetByTrackingCode(code string) (*entity.Waybill, error) {
	query := `SELECT ` + waybillColumns + ` FROM waybills WHERE tracking_code = $1`
	return r.getOne(query, code)
}

// GetByOrderID busca el waybill de una orden; nil si aún no se despachó.
func (r *WaybillRepo) GetByOrderID(orderID string) (*entity.Waybill, error) {
	query := `SELECT ` + waybillColumns + ` FROM waybills WHERE order_id = $1`
	return r.getOne(query, orderID)
}

func (r *WaybillRepo) getOne(query, arg string) (*entity.Waybill, error) {
	var w entity.Waybill
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&w.ID, &w.OrderID, &w.TrackingCode, &w.Status, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get waybill: %w", err)
	}
	return &w, nil
}

// UpdateStatus actualiza el estado del waybill.
func (r *WaybillRepo) UpdateStatus(id, status string) error {
	query := `UPDATE waybills SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update waybill status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update waybill status: sin filas afectadas")
	}
	return nil
}
