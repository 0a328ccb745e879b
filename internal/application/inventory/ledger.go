package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/access"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
	"github.com/jhoicas/Salidas-api/pkg/logger"
)

var tracer = otel.Tracer("github.com/jhoicas/Salidas-api/inventory")

// Ledger libro de inventario append-only. El saldo de (ítem, bodega) se calcula siempre desde
// los movimientos completados dentro de una transacción; no existen contadores mutables.
type Ledger struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
	now           func() time.Time
}

// NewLedger construye el servicio del libro de inventario.
func NewLedger(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
) *Ledger {
	return &Ledger{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log,
		now:           time.Now,
	}
}

// Balance entradas completadas menos salidas completadas del par (ítem, bodega).
func (l *Ledger) Balance(ctx context.Context, itemID, warehouseID string) (int64, error) {
	totals, err := l.Availability(ctx, itemID, warehouseID)
	if err != nil {
		return 0, err
	}
	return totals.Balance(), nil
}

// Availability devuelve las sumas del par: saldo, reservas pendientes y disponible para asignar.
func (l *Ledger) Availability(ctx context.Context, itemID, warehouseID string) (entity.StockTotals, error) {
	ctx, span := tracer.Start(ctx, "inventory.availability")
	defer span.End()
	span.SetAttributes(attribute.String("item_id", itemID), attribute.String("warehouse_id", warehouseID))

	if itemID == "" {
		return entity.StockTotals{}, domain.Validation("item_id", "es requerido")
	}
	if warehouseID == "" {
		return entity.StockTotals{}, domain.Validation("warehouse_id", "es requerido")
	}
	var totals entity.StockTotals
	err := l.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		totals, err = l.AvailabilityInTx(ctx, tx.Movements, itemID, warehouseID)
		return err
	})
	return totals, err
}

// AvailabilityInTx sumas del par con los repositorios de la transacción del caller.
// La asignación L2 y la ejecución la llaman tras tomar el lock del par.
func (l *Ledger) AvailabilityInTx(ctx context.Context, movRepo repository.MovementRepository, itemID, warehouseID string) (entity.StockTotals, error) {
	return movRepo.Totals(ctx, itemID, warehouseID)
}

// ReserveInTx crea una salida en estado reserved ligada a la asignación approvalID.
// No valida stock: el caller (asignación L2) ya lo hizo dentro de la misma transacción.
func (l *Ledger) ReserveInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	itemID, warehouseID string,
	quantity int64,
	approvalID, actorID, reference string,
	now time.Time,
) (*entity.Movement, error) {
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		Type:        entity.MovementTypeOut,
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
		Status:      entity.MovementStatusReserved,
		ApprovalID:  approvalID,
		Reference:   reference,
		CreatedBy:   actorID,
		CreatedAt:   now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// CompleteInTx pasa un movimiento de reserved a completed (compare-and-swap).
// Completar dos veces el mismo movimiento es ErrInvalidState, nunca un no-op.
func (l *Ledger) CompleteInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	movementID, actorID string,
	now time.Time,
) (*entity.Movement, error) {
	mov, err := movRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.InvalidState("el movimiento %q no existe", movementID)
	}
	if !mov.IsReserved() {
		return nil, domain.InvalidState("el movimiento %s ya está %s", mov.ID, mov.Status)
	}
	if mov.Type == entity.MovementTypeOut {
		// Con la política de reserva pesimista el saldo siempre cubre la reserva; si no, el libro está corrupto.
		totals, err := l.AvailabilityInTx(ctx, movRepo, mov.ItemID, mov.WarehouseID)
		if err != nil {
			return nil, err
		}
		if totals.Balance() < mov.Quantity {
			return nil, domain.InvalidState("saldo %d insuficiente para ejecutar %d", totals.Balance(), mov.Quantity)
		}
	}
	ok, err := movRepo.Complete(ctx, mov.ID, actorID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.InvalidState("el movimiento %s ya fue ejecutado", mov.ID)
	}
	mov.Status = entity.MovementStatusCompleted
	mov.CompletedBy = actorID
	mov.CompletedAt = &now
	return mov, nil
}

// ReceiptInput entrada de stock desde el proceso externo de abastecimiento.
type ReceiptInput struct {
	ItemID      string
	WarehouseID string
	Quantity    int64
	Reference   string
}

// Receive registra una entrada (siempre completed). Es el único origen de saldo positivo.
func (l *Ledger) Receive(ctx context.Context, actor entity.Actor, in ReceiptInput) (*entity.Movement, error) {
	ctx, span := tracer.Start(ctx, "inventory.receive")
	defer span.End()

	if err := access.Authorize(actor, access.ActionReceiveStock); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, domain.Validation("quantity", "debe ser mayor que 0 (recibido %d)", in.Quantity)
	}
	if err := l.checkDirectories(ctx, in.ItemID, in.WarehouseID); err != nil {
		return nil, err
	}

	now := l.now()
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		Type:        entity.MovementTypeIn,
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Status:      entity.MovementStatusCompleted,
		Reference:   strings.TrimSpace(in.Reference),
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		CompletedBy: actor.ID,
		CompletedAt: &now,
	}
	err := l.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.Movements.LockStock(ctx, in.ItemID, in.WarehouseID); err != nil {
			return err
		}
		return tx.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("movement_id", mov.ID).
		Str("item_id", mov.ItemID).
		Str("warehouse_id", mov.WarehouseID).
		Int64("quantity", mov.Quantity).
		Msg("entrada de inventario registrada")
	return mov, nil
}

// History lista los movimientos del par (ítem, bodega), más recientes primero.
func (l *Ledger) History(ctx context.Context, itemID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	if itemID == "" {
		return nil, domain.Validation("item_id", "es requerido")
	}
	var list []*entity.Movement
	err := l.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		list, err = tx.Movements.ListByItem(ctx, itemID, warehouseID, limit, offset)
		return err
	})
	return list, err
}

// Warehouses lista el directorio de bodegas.
func (l *Ledger) Warehouses(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	return l.warehouseRepo.List(ctx, limit, offset)
}

// CheckWarehouse valida que la bodega exista en el directorio.
func (l *Ledger) CheckWarehouse(ctx context.Context, warehouseID string) (*entity.Warehouse, error) {
	if warehouseID == "" {
		return nil, domain.Validation("warehouse_id", "es requerido")
	}
	wh, err := l.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.Validation("warehouse_id", "la bodega %q no existe", warehouseID)
	}
	return wh, nil
}

// CheckItem valida que el ítem exista en el catálogo.
func (l *Ledger) CheckItem(ctx context.Context, itemID string) (*entity.Product, error) {
	if itemID == "" {
		return nil, domain.Validation("item_id", "es requerido")
	}
	p, err := l.productRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.Validation("item_id", "el ítem %q no existe en el catálogo", itemID)
	}
	return p, nil
}

func (l *Ledger) checkDirectories(ctx context.Context, itemID, warehouseID string) error {
	if _, err := l.CheckItem(ctx, itemID); err != nil {
		return err
	}
	_, err := l.CheckWarehouse(ctx, warehouseID)
	return err
}
