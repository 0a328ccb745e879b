package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, type, item_id, warehouse_id, quantity, status, approval_id, reference, created_by, created_at, completed_by, completed_at`

// MovementRepo libro de inventario sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. approval_id es UNIQUE: una asignación tiene a lo sumo un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.ItemID, m.WarehouseID, m.Quantity, m.Status,
		nullString(m.ApprovalID), m.Reference, m.CreatedBy, m.CreatedAt,
		nullString(m.CompletedBy), m.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create inventory movement: la aprobación %s ya tiene movimiento: %w", m.ApprovalID, err)
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// GetByApprovalID obtiene el movimiento ligado a una asignación L2.
func (r *MovementRepo) GetByApprovalID(ctx context.Context, approvalID string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE approval_id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, approvalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement by approval: %w", err)
	}
	return m, nil
}

// ListByApprovalIDs lista los movimientos de un conjunto de asignaciones.
func (r *MovementRepo) ListByApprovalIDs(ctx context.Context, approvalIDs []string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE approval_id = ANY($1::text[]) ORDER BY created_at`
	return r.list(ctx, "list movements by approvals", query, approvalIDs)
}

// ListByItem lista movimientos de un ítem (opcionalmente de una bodega), más recientes primero.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE item_id = $1`
	args := []any{itemID}
	pos := 2
	if warehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(ctx, "list movements by item", query, args...)
}

// Totals suma el libro del par (ítem, bodega) en una sola pasada.
func (r *MovementRepo) Totals(ctx context.Context, itemID, warehouseID string) (entity.StockTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE type = 'in'  AND status = 'completed'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE type = 'out' AND status = 'completed'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE type = 'out' AND status = 'reserved'), 0)
		FROM inventory_movements
		WHERE item_id = $1 AND warehouse_id = $2`
	var t entity.StockTotals
	if err := r.q.QueryRow(ctx, query, itemID, warehouseID).Scan(&t.CompletedIn, &t.CompletedOut, &t.ReservedOut); err != nil {
		return entity.StockTotals{}, fmt.Errorf("stock totals: %w", err)
	}
	return t, nil
}

// LockStock toma un advisory lock transaccional sobre (ítem, bodega). No hay fila de stock que
// bloquear con SELECT FOR UPDATE porque el saldo se deriva de los movimientos.
func (r *MovementRepo) LockStock(ctx context.Context, itemID, warehouseID string) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text || '/' || $2::text, 0))`, itemID, warehouseID)
	if err != nil {
		return fmt.Errorf("lock stock: %w", err)
	}
	return nil
}

// Complete compare-and-swap reserved -> completed.
func (r *MovementRepo) Complete(ctx context.Context, id, completedBy string, at time.Time) (bool, error) {
	query := `
		UPDATE inventory_movements
		SET status = 'completed', completed_by = $2, completed_at = $3
		WHERE id = $1 AND status = 'reserved'`
	cmd, err := r.q.Exec(ctx, query, id, completedBy, at)
	if err != nil {
		return false, fmt.Errorf("complete movement: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *MovementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m           entity.Movement
		approvalID  *string
		completedBy *string
	)
	err := row.Scan(
		&m.ID, &m.Type, &m.ItemID, &m.WarehouseID, &m.Quantity, &m.Status,
		&approvalID, &m.Reference, &m.CreatedBy, &m.CreatedAt, &completedBy, &m.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if approvalID != nil {
		m.ApprovalID = *approvalID
	}
	if completedBy != nil {
		m.CompletedBy = *completedBy
	}
	return &m, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
