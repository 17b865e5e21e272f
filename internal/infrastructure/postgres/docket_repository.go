package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/electro-api/internal/domain/entity"
	"github.com/jhoicas/electro-api/internal/domain/repository"
)

var _ repository.DocketRepository = (*DocketRepo)(nil)

// DocketRepo implementación sobre PostgreSQL (usable con pool o tx).
type DocketRepo struct {
	q Querier
}

// NewDocketRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocketRepository(q Querier) *DocketRepo {
	return &DocketRepo{q: q}
}

const docketColumns = `id, code, kind, status, reason, created_by, created_at, updated_at`

// Create persiste un docket.
func (r *DocketRepo) Create(d *entity.Docket) error {
	query := `
		INSERT INTO dockets (` + docketColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Code, d.Kind, d.Status, d.Reason, nullable(d.CreatedBy), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create docket: código duplicado: %w", err)
		}
		return fmt.Errorf("create docket: %w", err)
	}
	return nil
}

// GetByID obtiene un docket por ID; nil si no existe.
func (r *DocketRepo) GetByID(id string) (*entity.Docket, error) {
	query := `SELECT ` + docketColumns + ` FROM dockets WHERE id = $1`
	return r.getOne(query, id)
}

// GetByIDForUpdate obtiene el docket bloqueando su fila dentro de la transacción.
func (r *DocketRepo) GetByIDForUpdate(id string) (*entity.Docket, error) {
	query := `SELECT ` + docketColumns + ` FROM dockets WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *DocketRepo) getOne(query, id string) (*entity.Docket, error) {
	d, err := scanDocket(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get docket: %w", err)
	}
	return d, nil
}

// UpdateStatus avanza el estado del docket.
func (r *DocketRepo) UpdateStatus(id, status string) error {
	query := `UPDATE dockets SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update docket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update docket status: sin filas afectadas")
	}
	return nil
}

// List pagina los dockets, más recientes primero.
func (r *DocketRepo) List(limit, offset int) ([]*entity.Docket, error) {
	query := `
		SELECT ` + docketColumns + ` FROM dockets
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list dockets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Docket
	for rows.Next() {
		d, err := scanDocket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan docket: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete elimina el docket. Solo los DRAFT llegan aquí (lo valida el caso de uso).
func (r *DocketRepo) Delete(id string) error {
	query := `DELETE FROM dockets WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id); err != nil {
		return fmt.Errorf("delete docket: %w", err)
	}
	return nil
}

func scanDocket(row pgx.Row) (*entity.Docket, error) {
	var d entity.Docket
	var createdBy *string
	if err := row.Scan(&d.ID, &d.Code, &d.Kind, &d.Status, &d.Reason,
		&createdBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if createdBy != nil {
		d.CreatedBy = *createdBy
	}
	return &d, nil
}
