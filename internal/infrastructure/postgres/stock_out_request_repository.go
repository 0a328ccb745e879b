package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
)

var _ repository.StockOutRequestRepository = (*StockOutRequestRepo)(nil)

const requestColumns = `id, number, status, reason, notes, requester_id, external_ref, active, cancelled_at, created_at, updated_at`

// StockOutRequestRepo solicitudes de salida sobre PostgreSQL (usable con pool o tx).
type StockOutRequestRepo struct {
	q Querier
}

// NewStockOutRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockOutRequestRepository(q Querier) *StockOutRequestRepo {
	return &StockOutRequestRepo{q: q}
}

// Create persiste una solicitud nueva.
func (r *StockOutRequestRepo) Create(ctx context.Context, req *entity.StockOutRequest) error {
	query := `
		INSERT INTO stock_out_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.Number, req.Status, req.Reason, req.Notes, req.RequesterID,
		req.ExternalRef, req.Active, req.CancelledAt, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock out request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID; nil si no existe.
func (r *StockOutRequestRepo) GetByID(ctx context.Context, id string) (*entity.StockOutRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM stock_out_requests WHERE id = $1`, id)
}

// GetForUpdate obtiene la solicitud y bloquea la fila (SELECT FOR UPDATE).
func (r *StockOutRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockOutRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM stock_out_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockOutRequestRepo) get(ctx context.Context, query, id string) (*entity.StockOutRequest, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock out request: %w", err)
	}
	return req, nil
}

// NextNumber toma el siguiente valor de la secuencia de numeración.
func (r *StockOutRequestRepo) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('stock_out_request_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next request number: %w", err)
	}
	return fmt.Sprintf("SAL-%06d", n), nil
}

// Update persiste estado (caché), activo, cancelación y fecha de actualización.
func (r *StockOutRequestRepo) Update(ctx context.Context, req *entity.StockOutRequest) error {
	query := `
		UPDATE stock_out_requests
		SET status = $2, active = $3, cancelled_at = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, req.ID, req.Status, req.Active, req.CancelledAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock out request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update stock out request: %s no existe", req.ID)
	}
	return nil
}

// List lista solicitudes, más recientes primero.
func (r *StockOutRequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.StockOutRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_out_requests WHERE true`
	var args []any
	pos := 1
	if f.RequesterID != "" {
		query += fmt.Sprintf(" AND requester_id = $%d", pos)
		args = append(args, f.RequesterID)
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.OnlyActive {
		query += " AND active"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock out requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockOutRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock out request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

func scanRequest(row pgx.Row) (*entity.StockOutRequest, error) {
	var req entity.StockOutRequest
	err := row.Scan(
		&req.ID, &req.Number, &req.Status, &req.Reason, &req.Notes, &req.RequesterID,
		&req.ExternalRef, &req.Active, &req.CancelledAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
