package stockout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/internal/domain"
)

type captureRenderer struct {
	got stockout.Voucher
	err error
}

func (r *captureRenderer) RenderVoucher(_ context.Context, v stockout.Voucher) ([]byte, error) {
	r.got = v
	return []byte("%PDF-fake"), r.err
}

func TestVoucher_PartialExecution(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 10)
	e.receive(t, whAux, 10)
	reqID, lineID := e.newRequest(t, 12)
	l1 := e.approve(t, lineID, 12)
	first := e.assign(t, l1.ID, whMain, 8)
	e.assign(t, l1.ID, whAux, 4)
	_, err := e.execution.Execute(ctx, keeper, first.Approval.ID)
	require.NoError(t, err)

	renderer := &captureRenderer{}
	uc := stockout.NewVoucherUseCase(e.requests, e.ledger, renderer, stockout.Options{})
	doc, name, err := uc.Download(ctx, requester, reqID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), doc)
	assert.Equal(t, "comprobante_SAL-000001.pdf", name)

	v := renderer.got
	assert.Equal(t, "partially_executed", v.Status)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, "TOR-001", v.Lines[0].SKU)
	assert.Equal(t, "Tornillo 1/4", v.Lines[0].ItemName)
	assert.Equal(t, int64(12), v.Lines[0].Approved)
	assert.Equal(t, int64(8), v.Lines[0].Executed)
	require.Len(t, v.Dispatches, 1, "solo las asignaciones ejecutadas")
	assert.Equal(t, "Principal", v.Dispatches[0].WarehouseName)
	assert.Equal(t, int64(8), v.Dispatches[0].Quantity)
	assert.Equal(t, keeper.ID, v.Dispatches[0].CompletedBy)
}

func TestVoucher_Rejections(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	reqID, _ := e.newRequest(t, 3)
	uc := stockout.NewVoucherUseCase(e.requests, e.ledger, &captureRenderer{}, stockout.Options{})

	_, _, err := uc.Download(ctx, requester, reqID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, _, err = uc.Download(ctx, approver, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	other := requester
	other.ID = "u-otro"
	_, _, err = uc.Download(ctx, other, reqID)
	assert.ErrorIs(t, err, domain.ErrPermission)
}

func TestVoucher_RendererFailure(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, stockout.Options{})
	e.receive(t, whMain, 5)
	reqID, lineID := e.newRequest(t, 5)
	out := e.assign(t, e.approve(t, lineID, 5).ID, whMain, 5)
	_, err := e.execution.Execute(ctx, keeper, out.Approval.ID)
	require.NoError(t, err)

	boom := errors.New("fuente no encontrada")
	uc := stockout.NewVoucherUseCase(e.requests, e.ledger, &captureRenderer{err: boom}, stockout.Options{})
	_, _, err = uc.Download(ctx, admin, reqID)
	assert.ErrorIs(t, err, boom)
}
