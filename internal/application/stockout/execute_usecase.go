package stockout

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Salidas-api/internal/application/inventory"
	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/access"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
)

// ExecutionUseCase confirma asignaciones de bodega en el libro de inventario.
// Es el único punto donde el saldo de una bodega disminuye.
type ExecutionUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	opts     Options
}

// NewExecutionUseCase construye el caso de uso.
func NewExecutionUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, opts Options) *ExecutionUseCase {
	return &ExecutionUseCase{txRunner: txRunner, ledger: ledger, opts: opts.withDefaults()}
}

// Execute pasa a completed el movimiento reservado de la asignación. Una segunda llamada sobre la
// misma asignación (concurrente o no) falla con ErrInvalidState; el saldo refleja un solo descuento.
// Tras el commit emite un evento "executed" best-effort para los demás observadores de la solicitud.
func (uc *ExecutionUseCase) Execute(ctx context.Context, actor entity.Actor, assignmentID string) (*entity.Movement, error) {
	ctx, span := tracer.Start(ctx, "stockout.execute")
	defer span.End()
	span.SetAttributes(attribute.String("assignment_id", assignmentID))

	mov, assignment, err := uc.execute(ctx, actor, assignmentID)
	if err != nil {
		uc.opts.Recorder.Failure("execute", err)
		uc.opts.Log.Debug().Err(err).Str("assignment_id", assignmentID).Msg("ejecución rechazada")
		return nil, err
	}
	uc.opts.Recorder.Execution()
	uc.opts.Log.Info().
		Str("assignment_id", assignment.ID).
		Str("movement_id", mov.ID).
		Str("warehouse_id", mov.WarehouseID).
		Int64("quantity", mov.Quantity).
		Str("actor_id", actor.ID).
		Msg("salida ejecutada")

	uc.opts.Notifier.Publish(ctx, Event{
		Type:         EventExecuted,
		RequestID:    assignment.RequestID,
		LineItemID:   assignment.LineItemID,
		AssignmentID: assignment.ID,
		MovementID:   mov.ID,
		ActorID:      actor.ID,
		At:           *mov.CompletedAt,
	})
	return mov, nil
}

func (uc *ExecutionUseCase) execute(ctx context.Context, actor entity.Actor, assignmentID string) (*entity.Movement, *entity.Approval, error) {
	if err := access.Authorize(actor, access.ActionExecute); err != nil {
		return nil, nil, err
	}
	var (
		mov        *entity.Movement
		assignment *entity.Approval
	)
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		assignment, err = tx.Approvals.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return domain.NotFound("assignment", assignmentID)
		}
		if !assignment.IsWarehouse() {
			return domain.InvalidState("solo se ejecutan asignaciones de bodega")
		}
		parent, err := tx.Approvals.GetByID(ctx, assignment.ParentApprovalID)
		if err != nil {
			return err
		}
		if parent == nil || !parent.IsApproved() || !assignment.IsApproved() {
			return domain.InvalidState("la asignación %s no pertenece a una aprobación vigente", assignment.ID)
		}
		req, err := tx.Requests.GetForUpdate(ctx, assignment.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.NotFound("request", assignment.RequestID)
		}
		if !req.Active {
			return domain.InvalidState("la solicitud %s está desactivada", req.Number)
		}
		reserved, err := tx.Movements.GetByApprovalID(ctx, assignment.ID)
		if err != nil {
			return err
		}
		if reserved == nil {
			return domain.InvalidState("la asignación %s no tiene movimiento asociado", assignment.ID)
		}
		if err := tx.Movements.LockStock(ctx, reserved.ItemID, reserved.WarehouseID); err != nil {
			return err
		}
		mov, err = uc.ledger.CompleteInTx(ctx, tx.Movements, reserved.ID, actor.ID, uc.opts.Now())
		if err != nil {
			return err
		}
		_, err = refreshView(ctx, tx, assignment.RequestID, uc.opts)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return mov, assignment, nil
}
