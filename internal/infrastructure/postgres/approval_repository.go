package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
)

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

const approvalColumns = `id, request_id, line_item_id, layer, parent_approval_id, warehouse_id, decision, approved_quantity, conversion_rate, rejection_reason, decided_by, decided_at`

// ApprovalRepo libro de aprobaciones (append-only) sobre PostgreSQL.
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

// Create persiste una decisión. Los CHECK de la tabla replican Approval.Validate.
func (r *ApprovalRepo) Create(ctx context.Context, a *entity.Approval) error {
	query := `
		INSERT INTO stock_out_approvals (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	var rate *decimal.Decimal
	if !a.ConversionRate.IsZero() {
		rate = &a.ConversionRate
	}
	_, err := r.q.Exec(ctx, query,
		a.ID, a.RequestID, a.LineItemID, string(a.Layer), nullString(a.ParentApprovalID),
		nullString(a.WarehouseID), a.Decision, a.ApprovedQuantity, rate,
		nullString(a.RejectionReason), a.DecidedBy, a.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

// GetByID obtiene una decisión por ID; nil si no existe.
func (r *ApprovalRepo) GetByID(ctx context.Context, id string) (*entity.Approval, error) {
	return r.get(ctx, `SELECT `+approvalColumns+` FROM stock_out_approvals WHERE id = $1`, id)
}

// GetForUpdate obtiene la decisión y bloquea la fila: serializa asignaciones sobre una misma L1.
func (r *ApprovalRepo) GetForUpdate(ctx context.Context, id string) (*entity.Approval, error) {
	return r.get(ctx, `SELECT `+approvalColumns+` FROM stock_out_approvals WHERE id = $1 FOR UPDATE`, id)
}

func (r *ApprovalRepo) get(ctx context.Context, query, id string) (*entity.Approval, error) {
	a, err := scanApproval(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval: %w", err)
	}
	return a, nil
}

// ListByLineItem lista decisiones (ambas capas) de una línea en orden cronológico.
func (r *ApprovalRepo) ListByLineItem(ctx context.Context, lineItemID string) ([]*entity.Approval, error) {
	return r.list(ctx, `SELECT `+approvalColumns+` FROM stock_out_approvals WHERE line_item_id = $1 ORDER BY decided_at, id`, lineItemID)
}

// ListByRequest lista decisiones de toda la solicitud en orden cronológico.
func (r *ApprovalRepo) ListByRequest(ctx context.Context, requestID string) ([]*entity.Approval, error) {
	return r.list(ctx, `SELECT `+approvalColumns+` FROM stock_out_approvals WHERE request_id = $1 ORDER BY decided_at, id`, requestID)
}

// ListChildren lista las asignaciones L2 de una aprobación L1.
func (r *ApprovalRepo) ListChildren(ctx context.Context, parentID string) ([]*entity.Approval, error) {
	return r.list(ctx, `SELECT `+approvalColumns+` FROM stock_out_approvals WHERE parent_approval_id = $1 ORDER BY decided_at, id`, parentID)
}

func (r *ApprovalRepo) list(ctx context.Context, query, arg string) ([]*entity.Approval, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Approval
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanApproval(row pgx.Row) (*entity.Approval, error) {
	var (
		a                         entity.Approval
		layer                     string
		parentID, whID, rejection *string
		rate                      decimal.NullDecimal
	)
	err := row.Scan(
		&a.ID, &a.RequestID, &a.LineItemID, &layer, &parentID, &whID, &a.Decision,
		&a.ApprovedQuantity, &rate, &rejection, &a.DecidedBy, &a.DecidedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Layer = entity.ApprovalLayer(layer)
	if parentID != nil {
		a.ParentApprovalID = *parentID
	}
	if whID != nil {
		a.WarehouseID = *whID
	}
	if rejection != nil {
		a.RejectionReason = *rejection
	}
	if rate.Valid {
		a.ConversionRate = rate.Decimal
	}
	return &a, nil
}
