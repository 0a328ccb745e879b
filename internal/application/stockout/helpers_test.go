package stockout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salidas-api/internal/application/inventory"
	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
	"github.com/jhoicas/Salidas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Salidas-api/pkg/logger"
)

const (
	itemID = "item-tornillo"
	whMain = "wh-principal"
	whAux  = "wh-auxiliar"
)

var (
	requester = entity.Actor{ID: "u-solicitante", Role: entity.RoleRequester}
	approver  = entity.Actor{ID: "u-aprobador", Role: entity.RoleApprover}
	keeper    = entity.Actor{ID: "u-bodeguero", Role: entity.RoleWarehouse}
	admin     = entity.Actor{ID: "u-admin", Role: entity.RoleAdmin}
)

type notifierMock struct{ mock.Mock }

func (m *notifierMock) Publish(ctx context.Context, ev stockout.Event) { m.Called(ctx, ev) }

type fakeRecorder struct {
	decisions  map[string]int
	executions int
	failures   map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{decisions: map[string]int{}, failures: map[string]int{}}
}

func (r *fakeRecorder) Decision(layer entity.ApprovalLayer, decision string) {
	r.decisions[string(layer)+"/"+decision]++
}
func (r *fakeRecorder) Execution()                 { r.executions++ }
func (r *fakeRecorder) Failure(op string, _ error) { r.failures[op]++ }

type engine struct {
	store     *memory.Store
	ledger    *inventory.Ledger
	requests  *stockout.RequestUseCase
	approvals *stockout.ApprovalUseCase
	execution *stockout.ExecutionUseCase
}

func newEngine(t *testing.T, opts stockout.Options) *engine {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: itemID, SKU: "TOR-001", Name: "Tornillo 1/4", UnitMeasure: "UND"})
	store.AddWarehouse(entity.Warehouse{ID: whMain, Name: "Principal"})
	store.AddWarehouse(entity.Warehouse{ID: whAux, Name: "Auxiliar"})
	ledger := inventory.NewLedger(store, store.Products(), store.Warehouses(), logger.Nop())
	return &engine{
		store:     store,
		ledger:    ledger,
		requests:  stockout.NewRequestUseCase(store, ledger, opts),
		approvals: stockout.NewApprovalUseCase(store, ledger, opts),
		execution: stockout.NewExecutionUseCase(store, ledger, opts),
	}
}

func (e *engine) receive(t *testing.T, warehouseID string, qty int64) {
	t.Helper()
	_, err := e.ledger.Receive(context.Background(), admin, inventory.ReceiptInput{ItemID: itemID, WarehouseID: warehouseID, Quantity: qty, Reference: "OC-1"})
	require.NoError(t, err)
}

// newRequest crea una solicitud de una línea y devuelve (requestID, lineItemID).
func (e *engine) newRequest(t *testing.T, qty int64) (string, string) {
	t.Helper()
	view, err := e.requests.CreateRequest(context.Background(), requester, stockout.CreateRequestInput{
		Reason: entity.ReasonConsumption,
		Lines:  []stockout.LineInput{{ItemID: itemID, Quantity: qty}},
	})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	return view.Request.ID, view.Lines[0].Item.ID
}

func (e *engine) approve(t *testing.T, lineID string, qty int64) *entity.Approval {
	t.Helper()
	a, err := e.approvals.ApproveQuantity(context.Background(), approver, stockout.QuantityDecisionInput{LineItemID: lineID, Quantity: qty})
	require.NoError(t, err)
	return a
}

func (e *engine) assign(t *testing.T, approvalID, warehouseID string, qty int64) *stockout.Assignment {
	t.Helper()
	out, err := e.approvals.AssignWarehouse(context.Background(), keeper, stockout.AssignWarehouseInput{ApprovalID: approvalID, WarehouseID: warehouseID, Quantity: qty})
	require.NoError(t, err)
	return out
}

func (e *engine) lineStatus(t *testing.T, requestID, lineID string) (string, string) {
	t.Helper()
	view, err := e.requests.Get(context.Background(), requestID)
	require.NoError(t, err)
	l, ok := view.Line(lineID)
	require.True(t, ok)
	return view.Status, l.Projection.Status
}

func ptr(v int64) *int64 { return &v }

func repositoryFilter(requesterID, status string) repository.RequestFilter {
	return repository.RequestFilter{RequesterID: requesterID, Status: status, OnlyActive: true, Limit: 20}
}
