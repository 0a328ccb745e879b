package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de inventario (append-only).
// Quantity nunca cambia; la única mutación permitida es reserved -> completed.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	GetByApprovalID(ctx context.Context, approvalID string) (*entity.Movement, error)
	// ListByApprovalIDs devuelve los movimientos ligados a las asignaciones indicadas.
	ListByApprovalIDs(ctx context.Context, approvalIDs []string) ([]*entity.Movement, error)
	ListByItem(ctx context.Context, itemID, warehouseID string, limit, offset int) ([]*entity.Movement, error)
	// Totals suma entradas/salidas completadas y salidas reservadas del par (ítem, bodega).
	Totals(ctx context.Context, itemID, warehouseID string) (entity.StockTotals, error)
	// LockStock serializa escrituras concurrentes sobre el par (ítem, bodega) hasta el fin de la tx.
	LockStock(ctx context.Context, itemID, warehouseID string) error
	// Complete hace compare-and-swap reserved -> completed. Devuelve false si el movimiento no estaba reserved.
	Complete(ctx context.Context, id, completedBy string, at time.Time) (bool, error)
}
