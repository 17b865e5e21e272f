package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/electro-api/internal/domain/entity"
	"github.com/jhoicas/electro-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, variant_id, source, kind, status, quantity, document_id, created_at, updated_at`

// Create persiste un movimiento del libro.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	kind := (*string)(nil)
	if m.Kind != "" {
		kind = &m.Kind
	}
	docID := (*string)(nil)
	if m.DocumentID != "" {
		docID = &m.DocumentID
	}
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.VariantID, m.Source, kind, m.Status, m.Quantity, docID, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	return r.getOne(query, id)
}

// GetByIDForUpdate obtiene el movimiento bloqueando su fila (SELECT FOR UPDATE).
// Solo serializa dentro de una transacción.
func (r *MovementRepo) GetByIDForUpdate(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *MovementRepo) getOne(query, id string) (*entity.Movement, error) {
	row := r.q.QueryRow(context.Background(), query, id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByVariant devuelve la partición completa de la variante, por fecha de
// creación ascendente (el cálculo de disponibilidad recorre todo el conjunto).
func (r *MovementRepo) ListByVariant(variantID string) ([]entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements WHERE variant_id = $1
		ORDER BY created_at ASC, id ASC`
	return r.list(query, variantID)
}

// ListByDocument lista las líneas de un documento (docket, orden de compra u orden de venta).
func (r *MovementRepo) ListByDocument(documentID string) ([]entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements WHERE document_id = $1
		ORDER BY created_at ASC, id ASC`
	return r.list(query, documentID)
}

func (r *MovementRepo) list(query string, arg any) ([]entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// UpdateStatus avanza el estado del movimiento y refresca updated_at.
func (r *MovementRepo) UpdateStatus(id, status string) error {
	query := `UPDATE movements SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update movement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update movement status: sin filas afectadas")
	}
	return nil
}

// Delete elimina físicamente el movimiento. El caso de uso valida antes que
// sea eliminable (solo estados de entrada no terminales).
func (r *MovementRepo) Delete(id string) error {
	query := `DELETE FROM movements WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id); err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var kind, docID *string
	if err := row.Scan(&m.ID, &m.VariantID, &m.Source, &kind, &m.Status,
		&m.Quantity, &docID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if kind != nil {
		m.Kind = *kind
	}
	if docID != nil {
		m.DocumentID = *docID
	}
	return &m, nil
}
