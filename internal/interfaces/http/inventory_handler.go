package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Salidas-api/internal/application/dto"
	"github.com/jhoicas/Salidas-api/internal/application/inventory"
)

// InventoryHandler consultas del libro de inventario y entradas de stock (protegido).
type InventoryHandler struct {
	ledger *inventory.Ledger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// Balance godoc
// @Summary      Saldo y disponible de un ítem en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  true  "ID del ítem"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/balance [get]
func (h *InventoryHandler) Balance(c *fiber.Ctx) error {
	itemID, warehouseID := c.Query("item_id"), c.Query("warehouse_id")
	totals, err := h.ledger.Availability(c.UserContext(), itemID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BalanceResponse{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Balance:     totals.Balance(),
		Reserved:    totals.ReservedOut,
		Available:   totals.Available(),
	})
}

// Movements godoc
// @Summary      Movimientos de un ítem (opcionalmente de una bodega)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  true   "ID del ítem"
// @Param        warehouse_id  query  string  false  "ID de la bodega"
// @Param        limit         query  int     false  "máx. 100"
// @Param        offset        query  int     false  "desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.ledger.History(c.UserContext(), c.Query("item_id"), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(*m))
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiptRequest  true  "item_id, warehouse_id, quantity, reference"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mov, err := h.ledger.Receive(c.UserContext(), GetActor(c), inventory.ReceiptInput{
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Reference:   in.Reference,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(*mov))
}

// Warehouses godoc
// @Summary      Listar bodegas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx. 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.WarehouseListResponse
// @Router       /api/warehouses [get]
func (h *InventoryHandler) Warehouses(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.ledger.Warehouses(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.WarehouseListResponse{Items: make([]dto.WarehouseResponse, 0, len(list)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, w := range list {
		out.Items = append(out.Items, dto.WarehouseResponse{ID: w.ID, Name: w.Name, Address: w.Address, CreatedAt: w.CreatedAt, UpdatedAt: w.UpdatedAt})
	}
	return c.JSON(out)
}
