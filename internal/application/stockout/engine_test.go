package stockout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

func TestFullFlow_ApprovePartRejectRestAssignExecute(t *testing.T) {
	ctx := context.Background()
	n := &notifierMock{}
	rec := newFakeRecorder()
	e := newEngine(t, stockout.Options{Notifier: n, Recorder: rec})
	e.receive(t, whMain, 80)

	reqID, lineID := e.newRequest(t, 100)
	status, line := e.lineStatus(t, reqID, lineID)
	assert.Equal(t, entity.RequestStatusPending, status)
	assert.Equal(t, entity.LineStatusPending, line)

	l1 := e.approve(t, lineID, 60)
	status, line = e.lineStatus(t, reqID, lineID)
	assert.Equal(t, entity.RequestStatusPartiallyApproved, status)
	assert.Equal(t, entity.LineStatusAwaitingAdmin, line)

	_, err := e.approvals.RejectQuantity(ctx, approver, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: 40, Reason: "excede consumo mensual"})
	require.NoError(t, err)
	status, line = e.lineStatus(t, reqID, lineID)
	assert.Equal(t, entity.RequestStatusApproved, status)
	assert.Equal(t, entity.LineStatusAwaitingAdmin, line)

	as := e.assign(t, l1.ID, whMain, 60)
	assert.Equal(t, entity.MovementStatusReserved, as.Movement.Status)
	assert.Equal(t, as.Approval.ID, as.Movement.ApprovalID)
	assert.True(t, as.Approval.ConversionRate.Equal(decimal.NewFromInt(1)), "hereda la tasa de la línea")
	_, line = e.lineStatus(t, reqID, lineID)
	assert.Equal(t, entity.LineStatusFullyApproved, line)

	totals, err := e.ledger.Availability(ctx, itemID, whMain)
	require.NoError(t, err)
	assert.Equal(t, int64(80), totals.Balance(), "reservar no mueve el saldo")
	assert.Equal(t, int64(20), totals.Available())

	n.On("Publish", mock.Anything, mock.MatchedBy(func(ev stockout.Event) bool {
		return ev.Type == stockout.EventExecuted && ev.RequestID == reqID && ev.AssignmentID == as.Approval.ID
	})).Return().Once()

	mov, err := e.execution.Execute(ctx, keeper, as.Approval.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCompleted, mov.Status)
	assert.Equal(t, keeper.ID, mov.CompletedBy)
	n.AssertExpectations(t)

	balance, err := e.ledger.Balance(ctx, itemID, whMain)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)

	status, line = e.lineStatus(t, reqID, lineID)
	assert.Equal(t, entity.RequestStatusExecuted, status)
	assert.Equal(t, entity.LineStatusExecuted, line)

	history, err := e.requests.History(ctx, reqID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.LayerQuantity, history[0].Layer)
	assert.Equal(t, entity.DecisionRejected, history[1].Decision)
	assert.Equal(t, entity.LayerWarehouse, history[2].Layer)

	assert.Equal(t, 2, rec.decisions["quantity/approved"]+rec.decisions["quantity/rejected"])
	assert.Equal(t, 1, rec.decisions["warehouse/approved"])
	assert.Equal(t, 1, rec.executions)
}

func TestApproveQuantity_ExceedsRemaining(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	reqID, lineID := e.newRequest(t, 100)
	e.approve(t, lineID, 60)

	_, err := e.approvals.ApproveQuantity(context.Background(), approver, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: 50})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "remaining_quantity", domain.FieldOf(err))

	history, err := e.requests.History(context.Background(), reqID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "no se registra la decisión fallida")
}

func TestApproveQuantity_StaleRemainingIsConflict(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	_, lineID := e.newRequest(t, 100)
	e.approve(t, lineID, 60)

	_, err := e.approvals.ApproveQuantity(context.Background(), approver, stockout.QuantityDecisionInput{
		LineItemID:        lineID,
		Quantity:          50,
		ExpectedRemaining: ptr(100),
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, "remaining_quantity", domain.FieldOf(err))
}

func TestRejectQuantity_RequiresReason(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	_, lineID := e.newRequest(t, 10)

	_, err := e.approvals.RejectQuantity(context.Background(), approver, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: 10, Reason: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "rejection_reason", domain.FieldOf(err))
}

func TestRejectQuantity_WholeLineRejectsRequest(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	reqID, lineID := e.newRequest(t, 10)

	_, err := e.approvals.RejectQuantity(context.Background(), approver, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: 10, Reason: "no corresponde"})
	require.NoError(t, err)

	status, line := e.lineStatus(t, reqID, lineID)
	assert.Equal(t, entity.RequestStatusRejected, status)
	assert.Equal(t, entity.LineStatusRejected, line)
}

func TestAssignWarehouse_InsufficientAvailableStock(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 80)

	_, lineA := e.newRequest(t, 60)
	_, lineB := e.newRequest(t, 30)
	a := e.approve(t, lineA, 60)
	b := e.approve(t, lineB, 30)
	e.assign(t, a.ID, whMain, 60)

	_, err := e.approvals.AssignWarehouse(context.Background(), keeper, stockout.AssignWarehouseInput{ApprovalID: b.ID, WarehouseID: whMain, Quantity: 30})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "available_stock", domain.FieldOf(err))

	// otra bodega sin stock tampoco sirve; con stock sí
	_, err = e.approvals.AssignWarehouse(context.Background(), keeper, stockout.AssignWarehouseInput{ApprovalID: b.ID, WarehouseID: whAux, Quantity: 30})
	assert.Equal(t, "available_stock", domain.FieldOf(err))
	e.receive(t, whAux, 30)
	e.assign(t, b.ID, whAux, 30)
}

func TestAssignWarehouse_StaleAvailableIsConflict(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 80)
	_, lineA := e.newRequest(t, 60)
	_, lineB := e.newRequest(t, 40)
	a := e.approve(t, lineA, 60)
	b := e.approve(t, lineB, 40)
	e.assign(t, a.ID, whMain, 60)

	_, err := e.approvals.AssignWarehouse(context.Background(), keeper, stockout.AssignWarehouseInput{
		ApprovalID:        b.ID,
		WarehouseID:       whMain,
		Quantity:          40,
		ExpectedAvailable: ptr(80),
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, "available_stock", domain.FieldOf(err))
}

func TestAssignWarehouse_ExceedsRemainingToAssign(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 100)
	e.receive(t, whAux, 100)
	_, lineID := e.newRequest(t, 50)
	a := e.approve(t, lineID, 50)
	e.assign(t, a.ID, whMain, 30)

	_, err := e.approvals.AssignWarehouse(context.Background(), keeper, stockout.AssignWarehouseInput{ApprovalID: a.ID, WarehouseID: whAux, Quantity: 25})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "remaining_to_assign", domain.FieldOf(err))

	_, err = e.approvals.AssignWarehouse(context.Background(), keeper, stockout.AssignWarehouseInput{
		ApprovalID: a.ID, WarehouseID: whAux, Quantity: 25, ExpectedUnassigned: ptr(50),
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	e.assign(t, a.ID, whAux, 20)
}

func TestAssignWarehouse_SplitAcrossWarehousesAndPartialExecution(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 30)
	e.receive(t, whAux, 30)
	reqID, lineID := e.newRequest(t, 50)
	a := e.approve(t, lineID, 50)
	first := e.assign(t, a.ID, whMain, 30)
	e.assign(t, a.ID, whAux, 20)

	_, err := e.execution.Execute(ctx, keeper, first.Approval.ID)
	require.NoError(t, err)

	status, line := e.lineStatus(t, reqID, lineID)
	assert.Equal(t, entity.RequestStatusPartiallyExecuted, status)
	assert.Equal(t, entity.LineStatusPartiallyExecuted, line)

	view, err := e.requests.Get(ctx, reqID)
	require.NoError(t, err)
	l, _ := view.Line(lineID)
	assert.Equal(t, int64(30), l.Projection.Executed)
	assert.Equal(t, int64(50), l.Projection.Assigned)
}

func TestAssignWarehouse_AgainstRejectionIsInvalidState(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 10)
	_, lineID := e.newRequest(t, 10)
	rejection, err := e.approvals.RejectQuantity(context.Background(), approver, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: 10, Reason: "no"})
	require.NoError(t, err)

	_, err = e.approvals.AssignWarehouse(context.Background(), keeper, stockout.AssignWarehouseInput{ApprovalID: rejection.ID, WarehouseID: whMain, Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAssignWarehouse_UnknownWarehouse(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	_, lineID := e.newRequest(t, 10)
	a := e.approve(t, lineID, 10)

	_, err := e.approvals.AssignWarehouse(context.Background(), keeper, stockout.AssignWarehouseInput{ApprovalID: a.ID, WarehouseID: "wh-fantasma", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "warehouse_id", domain.FieldOf(err))
}

func TestAssignWarehouse_IsAtomicWhenReservationFails(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 80)
	reqID, lineID := e.newRequest(t, 60)
	a := e.approve(t, lineID, 60)

	e.store.FailNext("movements.create", errors.New("disco lleno"))
	_, err := e.approvals.AssignWarehouse(ctx, keeper, stockout.AssignWarehouseInput{ApprovalID: a.ID, WarehouseID: whMain, Quantity: 60})
	require.Error(t, err)

	history, err := e.requests.History(ctx, reqID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "la asignación no debe quedar sin su movimiento")
	totals, err := e.ledger.Availability(ctx, itemID, whMain)
	require.NoError(t, err)
	assert.Equal(t, int64(80), totals.Available())

	_, line := e.lineStatus(t, reqID, lineID)
	assert.Equal(t, entity.LineStatusAwaitingAdmin, line)

	e.assign(t, a.ID, whMain, 60)
}

func TestExecute_Twice(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 10)
	_, lineID := e.newRequest(t, 10)
	a := e.approve(t, lineID, 10)
	as := e.assign(t, a.ID, whMain, 10)

	_, err := e.execution.Execute(ctx, keeper, as.Approval.ID)
	require.NoError(t, err)
	_, err = e.execution.Execute(ctx, keeper, as.Approval.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	balance, err := e.ledger.Balance(ctx, itemID, whMain)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestExecute_ConcurrentCallsDebitOnce(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 50)
	_, lineID := e.newRequest(t, 50)
	a := e.approve(t, lineID, 50)
	as := e.assign(t, a.ID, whMain, 50)

	const callers = 8
	errs := make([]error, callers)
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			_, errs[i] = e.execution.Execute(ctx, keeper, as.Approval.ID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	}
	assert.Equal(t, 1, ok)

	balance, err := e.ledger.Balance(ctx, itemID, whMain)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

// raceCalls ejecuta fn en paralelo n veces y devuelve el error de cada llamada.
func raceCalls(t *testing.T, n int, fn func() error) []error {
	t.Helper()
	errs := make([]error, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			errs[i] = fn()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	return errs
}

// assertLosers cuenta las llamadas exitosas; las demás deben fallar por la cota indicada o por conflicto.
func assertLosers(t *testing.T, errs []error, field string) int {
	t.Helper()
	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			continue
		}
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, field, domain.FieldOf(err))
	}
	return ok
}

func TestApproveQuantity_ConcurrentDecidersKeepConservation(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	reqID, lineID := e.newRequest(t, 10)

	errs := raceCalls(t, 8, func() error {
		_, err := e.approvals.ApproveQuantity(ctx, approver, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: 4})
		return err
	})
	ok := assertLosers(t, errs, "remaining_quantity")
	assert.Equal(t, 2, ok)

	history, err := e.requests.History(ctx, reqID)
	require.NoError(t, err)
	var approved int64
	for _, a := range history {
		if a.IsQuantity() && a.IsApproved() {
			approved += a.ApprovedQuantity
		}
	}
	assert.LessOrEqual(t, approved, int64(10))
	assert.Equal(t, int64(4*ok), approved)
}

func TestAssignWarehouse_ConcurrentAssignersKeepConservation(t *testing.T) {
	ctx := context.Background()

	t.Run("remaining_to_assign", func(t *testing.T) {
		e := newEngine(t, stockout.Options{})
		e.receive(t, whMain, 100)
		_, lineID := e.newRequest(t, 10)
		parent := e.approve(t, lineID, 10)

		errs := raceCalls(t, 6, func() error {
			_, err := e.approvals.AssignWarehouse(ctx, keeper, stockout.AssignWarehouseInput{ApprovalID: parent.ID, WarehouseID: whMain, Quantity: 4})
			return err
		})
		ok := assertLosers(t, errs, "remaining_to_assign")
		assert.Equal(t, 2, ok)

		totals, err := e.ledger.Availability(ctx, itemID, whMain)
		require.NoError(t, err)
		assert.Equal(t, int64(4*ok), totals.ReservedOut)
		assert.LessOrEqual(t, totals.ReservedOut, parent.ApprovedQuantity)
	})

	t.Run("available_stock", func(t *testing.T) {
		e := newEngine(t, stockout.Options{})
		e.receive(t, whMain, 10)
		_, lineID := e.newRequest(t, 30)
		parent := e.approve(t, lineID, 30)

		errs := raceCalls(t, 6, func() error {
			_, err := e.approvals.AssignWarehouse(ctx, keeper, stockout.AssignWarehouseInput{ApprovalID: parent.ID, WarehouseID: whMain, Quantity: 4})
			return err
		})
		ok := assertLosers(t, errs, "available_stock")
		assert.Equal(t, 2, ok)

		totals, err := e.ledger.Availability(ctx, itemID, whMain)
		require.NoError(t, err)
		assert.Equal(t, int64(8), totals.ReservedOut)
		assert.GreaterOrEqual(t, totals.Available(), int64(0))
	})
}

func TestExecute_RequiresWarehouseAssignment(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	_, lineID := e.newRequest(t, 10)
	a := e.approve(t, lineID, 10)

	_, err := e.execution.Execute(context.Background(), keeper, a.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = e.execution.Execute(context.Background(), keeper, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPermissions(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 10)
	_, lineID := e.newRequest(t, 10)

	_, err := e.approvals.ApproveQuantity(ctx, keeper, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: 10})
	assert.ErrorIs(t, err, domain.ErrPermission)

	a := e.approve(t, lineID, 10)
	_, err = e.approvals.AssignWarehouse(ctx, approver, stockout.AssignWarehouseInput{ApprovalID: a.ID, WarehouseID: whMain, Quantity: 10})
	assert.ErrorIs(t, err, domain.ErrPermission)

	as := e.assign(t, a.ID, whMain, 10)
	_, err = e.execution.Execute(ctx, requester, as.Approval.ID)
	assert.ErrorIs(t, err, domain.ErrPermission)
}

func TestCreateRequest_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	tests := []struct {
		name  string
		in    stockout.CreateRequestInput
		field string
	}{
		{"motivo desconocido", stockout.CreateRequestInput{Reason: "regalo", Lines: []stockout.LineInput{{ItemID: itemID, Quantity: 1}}}, "reason"},
		{"sin líneas", stockout.CreateRequestInput{Reason: entity.ReasonDamage}, "line_items"},
		{"cantidad cero", stockout.CreateRequestInput{Reason: entity.ReasonDamage, Lines: []stockout.LineInput{{ItemID: itemID}}}, "requested_quantity"},
		{"ítem inexistente", stockout.CreateRequestInput{Reason: entity.ReasonDamage, Lines: []stockout.LineInput{{ItemID: "x", Quantity: 1}}}, "item_id"},
		{"tasa negativa", stockout.CreateRequestInput{Reason: entity.ReasonDamage, Lines: []stockout.LineInput{{ItemID: itemID, Quantity: 1, ConversionRate: decimal.NewFromInt(-1)}}}, "conversion_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.requests.CreateRequest(ctx, requester, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.field, domain.FieldOf(err))
		})
	}
}

func TestCreateRequest_NumbersAreSequential(t *testing.T) {
	e := newEngine(t, stockout.Options{})
	first, _ := e.newRequest(t, 1)
	second, _ := e.newRequest(t, 1)

	v1, err := e.requests.Get(context.Background(), first)
	require.NoError(t, err)
	v2, err := e.requests.Get(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "SAL-000001", v1.Request.Number)
	assert.Equal(t, "SAL-000002", v2.Request.Number)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})

	t.Run("solo el solicitante", func(t *testing.T) {
		reqID, _ := e.newRequest(t, 5)
		_, err := e.requests.Cancel(ctx, admin, reqID)
		assert.ErrorIs(t, err, domain.ErrPermission)
	})

	t.Run("pending se cancela", func(t *testing.T) {
		reqID, lineID := e.newRequest(t, 5)
		view, err := e.requests.Cancel(ctx, requester, reqID)
		require.NoError(t, err)
		assert.Equal(t, entity.RequestStatusCancelled, view.Status)
		l, _ := view.Line(lineID)
		assert.Equal(t, entity.LineStatusCancelled, l.Projection.Status)

		_, err = e.approvals.ApproveQuantity(ctx, approver, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: 5})
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("con decisiones ya no se cancela", func(t *testing.T) {
		reqID, lineID := e.newRequest(t, 5)
		e.approve(t, lineID, 2)
		_, err := e.requests.Cancel(ctx, requester, reqID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
	t.Run("rechazo parcial ya no se cancela", func(t *testing.T) {
		reqID, lineID := e.newRequest(t, 10)
		_, err := e.approvals.RejectQuantity(ctx, approver, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: 4, Reason: "dañado"})
		require.NoError(t, err)

		view, err := e.requests.Get(ctx, reqID)
		require.NoError(t, err)
		assert.Equal(t, entity.RequestStatusPartiallyApproved, view.Status)
		l, _ := view.Line(lineID)
		assert.Equal(t, entity.LineStatusPartiallyApproved, l.Projection.Status)
		assert.Equal(t, int64(6), l.Projection.Remaining())

		_, err = e.requests.Cancel(ctx, requester, reqID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)

		view, err = e.requests.Get(ctx, reqID)
		require.NoError(t, err)
		l, _ = view.Line(lineID)
		assert.Equal(t, entity.LineStatusPartiallyApproved, l.Projection.Status)
		assert.Len(t, view.Approvals, 1)
	})
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	reqID, lineID := e.newRequest(t, 5)

	assert.ErrorIs(t, e.requests.Deactivate(ctx, approver, reqID), domain.ErrPermission)
	require.NoError(t, e.requests.Deactivate(ctx, admin, reqID))
	assert.ErrorIs(t, e.requests.Deactivate(ctx, admin, reqID), domain.ErrInvalidState)

	_, err := e.approvals.ApproveQuantity(ctx, approver, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestList_StatusFilterPaginatesOverMatches(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	var pending []string
	for i := 0; i < 3; i++ {
		id, _ := e.newRequest(t, 5)
		pending = append(pending, id)
	}
	// las más recientes ya no están pending
	for i := 0; i < 3; i++ {
		_, lineID := e.newRequest(t, 5)
		e.approve(t, lineID, 5)
	}

	f := repositoryFilter(requester.ID, entity.RequestStatusPending)
	f.Limit = 2
	page, err := e.requests.List(ctx, f)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, pending[2], page[0].Request.ID)
	assert.Equal(t, pending[1], page[1].Request.ID)

	f.Offset = 2
	page, err = e.requests.List(ctx, f)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, pending[0], page[0].Request.ID)
	assert.Equal(t, entity.RequestStatusPending, page[0].Status)
}

func TestList_FiltersByProjectedStatusAndRequester(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	pendingID, _ := e.newRequest(t, 5)
	_, lineID := e.newRequest(t, 5)
	e.approve(t, lineID, 5)

	other := entity.Actor{ID: "u-otro", Role: entity.RoleRequester}
	_, err := e.requests.CreateRequest(ctx, other, stockout.CreateRequestInput{Reason: entity.ReasonLoss, Lines: []stockout.LineInput{{ItemID: itemID, Quantity: 1}}})
	require.NoError(t, err)

	views, err := e.requests.List(ctx, repositoryFilter(requester.ID, entity.RequestStatusPending))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, pendingID, views[0].Request.ID)

	all, err := e.requests.List(ctx, repositoryFilter("", ""))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
