package main

import (
	"context"
	"time"

	"github.com/jhoicas/Salidas-api/internal/application/auth"
	"github.com/jhoicas/Salidas-api/internal/application/inventory"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/infrastructure/memory"
)

// demoPassword clave de los usuarios de demostración.
const demoPassword = "demo1234"

// seedDemo carga catálogo, bodegas, saldo inicial y un usuario por rol en el store en memoria
// (solo development).
func seedDemo(ctx context.Context, store *memory.Store, ledger *inventory.Ledger, authUC *auth.AuthUseCase) error {
	now := time.Now()
	products := []entity.Product{
		{ID: "item-casco", SKU: "EPP-001", Name: "Casco de seguridad", UnitMeasure: "und"},
		{ID: "item-guante", SKU: "EPP-002", Name: "Guantes de nitrilo", UnitMeasure: "par"},
		{ID: "item-cemento", SKU: "OBR-010", Name: "Cemento gris 50kg", UnitMeasure: "bulto"},
	}
	warehouses := []entity.Warehouse{
		{ID: "wh-principal", Name: "Bodega principal", Address: "Calle 10 # 5-20"},
		{ID: "wh-obra", Name: "Bodega de obra", Address: "Km 3 vía al norte"},
	}
	for _, p := range products {
		p.CreatedAt, p.UpdatedAt = now, now
		store.AddProduct(p)
	}
	for _, w := range warehouses {
		w.CreatedAt, w.UpdatedAt = now, now
		store.AddWarehouse(w)
	}

	system := entity.Actor{ID: "system", Role: entity.RoleAdmin}
	opening := []inventory.ReceiptInput{
		{ItemID: "item-casco", WarehouseID: "wh-principal", Quantity: 120},
		{ItemID: "item-casco", WarehouseID: "wh-obra", Quantity: 30},
		{ItemID: "item-guante", WarehouseID: "wh-principal", Quantity: 500},
		{ItemID: "item-cemento", WarehouseID: "wh-obra", Quantity: 80},
	}
	for _, in := range opening {
		in.Reference = "saldo inicial"
		if _, err := ledger.Receive(ctx, system, in); err != nil {
			return err
		}
	}

	for _, role := range []string{entity.RoleAdmin, entity.RoleApprover, entity.RoleWarehouse, entity.RoleRequester} {
		_, err := authUC.RegisterUser(ctx, system, auth.RegisterInput{
			Email:    role + "@demo.local",
			Password: demoPassword,
			Role:     role,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
