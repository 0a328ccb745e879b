package stockout

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Salidas-api/internal/application/inventory"
	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/access"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
	"github.com/jhoicas/Salidas-api/internal/domain/stockout"
)

// ApprovalUseCase libro de aprobaciones en dos capas: decisión de cantidad (L1) y asignación de bodega (L2).
//
// Toda cota se revalida dentro de la transacción de escritura, con la solicitud bloqueada:
// lo que el actor vio en el formulario puede estar desactualizado.
type ApprovalUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	opts     Options
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, opts Options) *ApprovalUseCase {
	return &ApprovalUseCase{txRunner: txRunner, ledger: ledger, opts: opts.withDefaults()}
}

// QuantityDecisionInput entrada de una decisión L1.
// ExpectedRemaining es el remaining_quantity que mostraba el formulario (opcional).
type QuantityDecisionInput struct {
	LineItemID        string
	Quantity          int64
	Reason            string // obligatorio solo al rechazar
	ExpectedRemaining *int64
}

// ApproveQuantity aprueba Quantity de la línea. Requiere 0 < Quantity <= remaining_quantity.
func (uc *ApprovalUseCase) ApproveQuantity(ctx context.Context, actor entity.Actor, in QuantityDecisionInput) (*entity.Approval, error) {
	in.Reason = ""
	return uc.decideQuantity(ctx, actor, in, entity.DecisionApproved)
}

// RejectQuantity rechaza Quantity de la línea con un motivo no vacío.
func (uc *ApprovalUseCase) RejectQuantity(ctx context.Context, actor entity.Actor, in QuantityDecisionInput) (*entity.Approval, error) {
	return uc.decideQuantity(ctx, actor, in, entity.DecisionRejected)
}

func (uc *ApprovalUseCase) decideQuantity(ctx context.Context, actor entity.Actor, in QuantityDecisionInput, decision string) (*entity.Approval, error) {
	ctx, span := tracer.Start(ctx, "stockout.decide_quantity")
	defer span.End()
	span.SetAttributes(
		attribute.String("line_item_id", in.LineItemID),
		attribute.String("decision", decision),
		attribute.Int64("quantity", in.Quantity),
	)

	approval, err := uc.doDecideQuantity(ctx, actor, in, decision)
	if err != nil {
		uc.opts.Recorder.Failure("decide_quantity", err)
		uc.opts.Log.Debug().Err(err).Str("line_item_id", in.LineItemID).Str("decision", decision).Msg("decisión de cantidad rechazada")
		return nil, err
	}
	uc.opts.Recorder.Decision(entity.LayerQuantity, decision)
	uc.opts.Log.Info().
		Str("approval_id", approval.ID).
		Str("line_item_id", approval.LineItemID).
		Str("decision", decision).
		Int64("quantity", approval.ApprovedQuantity).
		Str("decided_by", actor.ID).
		Msg("decisión de cantidad registrada")
	return approval, nil
}

func (uc *ApprovalUseCase) doDecideQuantity(ctx context.Context, actor entity.Actor, in QuantityDecisionInput, decision string) (*entity.Approval, error) {
	if err := access.Authorize(actor, access.ActionDecideQuantity); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if decision == entity.DecisionRejected && reason == "" {
		return nil, domain.Validation("rejection_reason", "es requerido al rechazar")
	}

	var approval *entity.Approval
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		item, err := tx.LineItems.GetByID(ctx, in.LineItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("line_item", in.LineItemID)
		}
		// Orden de bloqueo fijo: solicitud, luego línea.
		if _, err := lockOpenRequest(ctx, tx, item.RequestID); err != nil {
			return err
		}
		item, err = tx.LineItems.GetForUpdate(ctx, in.LineItemID)
		if err != nil {
			return err
		}
		if item.Cancelled {
			return domain.InvalidState("la línea %s está cancelada", item.ID)
		}
		approvals, err := tx.Approvals.ListByLineItem(ctx, item.ID)
		if err != nil {
			return err
		}
		totals := stockout.SumLine(*item, derefAll(approvals), nil)
		if err := stockout.CheckBound(stockout.BoundRemainingQuantity, in.Quantity, totals.Remaining(), in.ExpectedRemaining); err != nil {
			return err
		}

		approval = &entity.Approval{
			ID:               uuid.New().String(),
			RequestID:        item.RequestID,
			LineItemID:       item.ID,
			Layer:            entity.LayerQuantity,
			Decision:         decision,
			ApprovedQuantity: in.Quantity,
			RejectionReason:  reason,
			DecidedBy:        actor.ID,
			DecidedAt:        uc.opts.Now(),
		}
		if err := approval.Validate(); err != nil {
			return err
		}
		if err := tx.Approvals.Create(ctx, approval); err != nil {
			return err
		}
		_, err = refreshView(ctx, tx, item.RequestID, uc.opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return approval, nil
}

// AssignWarehouseInput entrada de una asignación L2.
// ExpectedUnassigned y ExpectedAvailable son los valores que mostraba el formulario (opcionales).
type AssignWarehouseInput struct {
	ApprovalID         string
	WarehouseID        string
	Quantity           int64
	ConversionRate     decimal.Decimal // cero = hereda la de la línea
	ExpectedUnassigned *int64
	ExpectedAvailable  *int64
}

// Assignment asignación L2 con su movimiento reservado (siempre 1:1).
type Assignment struct {
	Approval entity.Approval
	Movement entity.Movement
}

// AssignWarehouse asigna parte de una aprobación L1 a una bodega y reserva el movimiento de salida
// en la misma unidad de trabajo. Cotas, en este orden y con errores distintos:
//  1. Quantity <= aprobado L1 - Σ asignaciones hijas (remaining_to_assign).
//  2. Quantity <= saldo de la bodega menos reservas pendientes (available_stock).
func (uc *ApprovalUseCase) AssignWarehouse(ctx context.Context, actor entity.Actor, in AssignWarehouseInput) (*Assignment, error) {
	ctx, span := tracer.Start(ctx, "stockout.assign_warehouse")
	defer span.End()
	span.SetAttributes(
		attribute.String("approval_id", in.ApprovalID),
		attribute.String("warehouse_id", in.WarehouseID),
		attribute.Int64("quantity", in.Quantity),
	)

	out, err := uc.doAssignWarehouse(ctx, actor, in)
	if err != nil {
		uc.opts.Recorder.Failure("assign_warehouse", err)
		uc.opts.Log.Debug().Err(err).Str("approval_id", in.ApprovalID).Str("warehouse_id", in.WarehouseID).Msg("asignación de bodega rechazada")
		return nil, err
	}
	uc.opts.Recorder.Decision(entity.LayerWarehouse, entity.DecisionApproved)
	uc.opts.Log.Info().
		Str("assignment_id", out.Approval.ID).
		Str("parent_approval_id", out.Approval.ParentApprovalID).
		Str("warehouse_id", out.Approval.WarehouseID).
		Str("movement_id", out.Movement.ID).
		Int64("quantity", out.Approval.ApprovedQuantity).
		Msg("bodega asignada y salida reservada")
	return out, nil
}

func (uc *ApprovalUseCase) doAssignWarehouse(ctx context.Context, actor entity.Actor, in AssignWarehouseInput) (*Assignment, error) {
	if err := access.Authorize(actor, access.ActionAssignWarehouse); err != nil {
		return nil, err
	}
	if in.ConversionRate.IsNegative() {
		return nil, domain.Validation("conversion_rate", "debe ser positiva")
	}
	if _, err := uc.ledger.CheckWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	var out *Assignment
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		parent, err := tx.Approvals.GetByID(ctx, in.ApprovalID)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.NotFound("approval", in.ApprovalID)
		}
		if !parent.IsQuantity() {
			return domain.InvalidState("solo se asigna bodega contra una decisión de cantidad")
		}
		if !parent.IsApproved() {
			return domain.InvalidState("la decisión %s es un rechazo; no admite asignación de bodega", parent.ID)
		}
		if _, err := lockOpenRequest(ctx, tx, parent.RequestID); err != nil {
			return err
		}
		if parent, err = tx.Approvals.GetForUpdate(ctx, parent.ID); err != nil {
			return err
		}
		item, err := tx.LineItems.GetByID(ctx, parent.LineItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("line_item", parent.LineItemID)
		}

		children, err := tx.Approvals.ListChildren(ctx, parent.ID)
		if err != nil {
			return err
		}
		unassigned := parent.ApprovedQuantity
		for _, c := range children {
			unassigned -= c.ApprovedQuantity
		}
		if err := stockout.CheckBound(stockout.BoundRemainingToAssign, in.Quantity, unassigned, in.ExpectedUnassigned); err != nil {
			return err
		}

		if err := tx.Movements.LockStock(ctx, item.ItemID, in.WarehouseID); err != nil {
			return err
		}
		totals, err := uc.ledger.AvailabilityInTx(ctx, tx.Movements, item.ItemID, in.WarehouseID)
		if err != nil {
			return err
		}
		if err := stockout.CheckBound(stockout.BoundAvailableStock, in.Quantity, totals.Available(), in.ExpectedAvailable); err != nil {
			return err
		}

		rate := in.ConversionRate
		if rate.IsZero() {
			rate = item.ConversionRate
		}
		now := uc.opts.Now()
		assignment := &entity.Approval{
			ID:               uuid.New().String(),
			RequestID:        parent.RequestID,
			LineItemID:       parent.LineItemID,
			Layer:            entity.LayerWarehouse,
			ParentApprovalID: parent.ID,
			WarehouseID:      in.WarehouseID,
			Decision:         entity.DecisionApproved,
			ApprovedQuantity: in.Quantity,
			ConversionRate:   rate,
			DecidedBy:        actor.ID,
			DecidedAt:        now,
		}
		if err := assignment.Validate(); err != nil {
			return err
		}
		if err := tx.Approvals.Create(ctx, assignment); err != nil {
			return err
		}
		mov, err := uc.ledger.ReserveInTx(ctx, tx.Movements, item.ItemID, in.WarehouseID, in.Quantity, assignment.ID, actor.ID, parent.RequestID, now)
		if err != nil {
			return err
		}
		if _, err := refreshView(ctx, tx, parent.RequestID, uc.opts); err != nil {
			return err
		}
		out = &Assignment{Approval: *assignment, Movement: *mov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
