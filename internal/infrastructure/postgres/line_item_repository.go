package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
)

var _ repository.LineItemRepository = (*LineItemRepo)(nil)

const lineItemColumns = `id, request_id, item_id, requested_quantity, remaining_quantity, conversion_rate, status, cancelled, created_at, updated_at`

// LineItemRepo líneas de solicitud sobre PostgreSQL (usable con pool o tx).
type LineItemRepo struct {
	q Querier
}

// NewLineItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLineItemRepository(q Querier) *LineItemRepo {
	return &LineItemRepo{q: q}
}

// Create persiste una línea.
func (r *LineItemRepo) Create(ctx context.Context, it *entity.LineItem) error {
	query := `
		INSERT INTO stock_out_line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.RequestID, it.ItemID, it.RequestedQuantity, it.RemainingQuantity,
		it.ConversionRate, it.Status, it.Cancelled, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert line item: %w", err)
	}
	return nil
}

// GetByID obtiene una línea por ID; nil si no existe.
func (r *LineItemRepo) GetByID(ctx context.Context, id string) (*entity.LineItem, error) {
	return r.get(ctx, `SELECT `+lineItemColumns+` FROM stock_out_line_items WHERE id = $1`, id)
}

// GetForUpdate obtiene la línea y bloquea la fila (SELECT FOR UPDATE).
func (r *LineItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.LineItem, error) {
	return r.get(ctx, `SELECT `+lineItemColumns+` FROM stock_out_line_items WHERE id = $1 FOR UPDATE`, id)
}

func (r *LineItemRepo) get(ctx context.Context, query, id string) (*entity.LineItem, error) {
	it, err := scanLineItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get line item: %w", err)
	}
	return it, nil
}

// ListByRequest lista las líneas de una solicitud en orden de alta.
func (r *LineItemRepo) ListByRequest(ctx context.Context, requestID string) ([]*entity.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM stock_out_line_items WHERE request_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()
	var list []*entity.LineItem
	for rows.Next() {
		it, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Update persiste columnas caché y cancelación.
func (r *LineItemRepo) Update(ctx context.Context, it *entity.LineItem) error {
	query := `
		UPDATE stock_out_line_items
		SET status = $2, remaining_quantity = $3, cancelled = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, it.ID, it.Status, it.RemainingQuantity, it.Cancelled, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update line item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update line item: %s no existe", it.ID)
	}
	return nil
}

func scanLineItem(row pgx.Row) (*entity.LineItem, error) {
	var it entity.LineItem
	err := row.Scan(
		&it.ID, &it.RequestID, &it.ItemID, &it.RequestedQuantity, &it.RemainingQuantity,
		&it.ConversionRate, &it.Status, &it.Cancelled, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
