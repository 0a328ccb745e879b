package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salidas-api/internal/application/inventory"
	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
	"github.com/jhoicas/Salidas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Salidas-api/pkg/logger"
)

var keeper = entity.Actor{ID: "u-bodeguero", Role: entity.RoleWarehouse}

func newLedger(t *testing.T) (*inventory.Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: "item", SKU: "SKU-1", Name: "Guantes"})
	store.AddWarehouse(entity.Warehouse{ID: "wh", Name: "Central"})
	return inventory.NewLedger(store, store.Products(), store.Warehouses(), logger.Nop()), store
}

func TestReceive(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	mov, err := l.Receive(ctx, keeper, inventory.ReceiptInput{ItemID: "item", WarehouseID: "wh", Quantity: 25, Reference: " OC-7 "})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIn, mov.Type)
	assert.Equal(t, entity.MovementStatusCompleted, mov.Status)
	assert.Equal(t, "OC-7", mov.Reference)

	balance, err := l.Balance(ctx, "item", "wh")
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)

	history, err := l.History(ctx, "item", "wh", 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestReceive_Rejections(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	_, err := l.Receive(ctx, entity.Actor{ID: "u", Role: entity.RoleRequester}, inventory.ReceiptInput{ItemID: "item", WarehouseID: "wh", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrPermission)

	_, err = l.Receive(ctx, keeper, inventory.ReceiptInput{ItemID: "item", WarehouseID: "wh", Quantity: 0})
	assert.Equal(t, "quantity", domain.FieldOf(err))

	_, err = l.Receive(ctx, keeper, inventory.ReceiptInput{ItemID: "otro", WarehouseID: "wh", Quantity: 1})
	assert.Equal(t, "item_id", domain.FieldOf(err))

	_, err = l.Receive(ctx, keeper, inventory.ReceiptInput{ItemID: "item", WarehouseID: "otra", Quantity: 1})
	assert.Equal(t, "warehouse_id", domain.FieldOf(err))
}

func TestAvailability_RequiresKeys(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Availability(context.Background(), "", "wh")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = l.Availability(context.Background(), "item", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReserveAndComplete(t *testing.T) {
	ctx := context.Background()
	l, store := newLedger(t)
	_, err := l.Receive(ctx, keeper, inventory.ReceiptInput{ItemID: "item", WarehouseID: "wh", Quantity: 10})
	require.NoError(t, err)

	now := time.Now()
	var reserved *entity.Movement
	err = store.Run(ctx, func(tx repository.Tx) error {
		var err error
		reserved, err = l.ReserveInTx(ctx, tx.Movements, "item", "wh", 4, "asg-1", keeper.ID, "req-1", now)
		return err
	})
	require.NoError(t, err)

	totals, err := l.Availability(ctx, "item", "wh")
	require.NoError(t, err)
	assert.Equal(t, entity.StockTotals{CompletedIn: 10, ReservedOut: 4}, totals)

	err = store.Run(ctx, func(tx repository.Tx) error {
		inTx, err := l.AvailabilityInTx(ctx, tx.Movements, "item", "wh")
		require.NoError(t, err)
		assert.Equal(t, totals, inTx)
		assert.Equal(t, int64(6), inTx.Available())
		return nil
	})
	require.NoError(t, err)

	err = store.Run(ctx, func(tx repository.Tx) error {
		_, err := l.CompleteInTx(ctx, tx.Movements, reserved.ID, keeper.ID, now)
		return err
	})
	require.NoError(t, err)

	err = store.Run(ctx, func(tx repository.Tx) error {
		_, err := l.CompleteInTx(ctx, tx.Movements, reserved.ID, keeper.ID, now)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	err = store.Run(ctx, func(tx repository.Tx) error {
		_, err := l.CompleteInTx(ctx, tx.Movements, "no-existe", keeper.ID, now)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	balance, err := l.Balance(ctx, "item", "wh")
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance)
}

func TestWarehouses(t *testing.T) {
	l, store := newLedger(t)
	store.AddWarehouse(entity.Warehouse{ID: "wh-2", Name: "Anexo"})

	list, err := l.Warehouses(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Anexo", list[0].Name)
}
