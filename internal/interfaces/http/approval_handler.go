package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Salidas-api/internal/application/dto"
	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

// ApprovalHandler decisiones L1, asignaciones L2 y ejecución (protegido).
type ApprovalHandler struct {
	approvals *stockout.ApprovalUseCase
	execution *stockout.ExecutionUseCase
}

// NewApprovalHandler construye el handler.
func NewApprovalHandler(approvals *stockout.ApprovalUseCase, execution *stockout.ExecutionUseCase) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals, execution: execution}
}

// ApproveQuantity godoc
// @Summary      Aprobar cantidad de una línea (L1)
// @Tags         approvals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la línea"
// @Param        body  body  dto.QuantityDecisionRequest  true  "quantity, expected_remaining (opcional)"
// @Success      201   {object}  dto.ApprovalResponse
// @Failure      400   {object}  dto.ErrorResponse  "field = remaining_quantity si excede lo pendiente"
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/line-items/{id}/approve [post]
func (h *ApprovalHandler) ApproveQuantity(c *fiber.Ctx) error {
	return h.decide(c, h.approvals.ApproveQuantity)
}

// RejectQuantity godoc
// @Summary      Rechazar cantidad de una línea (L1)
// @Tags         approvals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la línea"
// @Param        body  body  dto.QuantityDecisionRequest  true  "quantity, reason (obligatorio)"
// @Success      201   {object}  dto.ApprovalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/line-items/{id}/reject [post]
func (h *ApprovalHandler) RejectQuantity(c *fiber.Ctx) error {
	return h.decide(c, h.approvals.RejectQuantity)
}

type decideFunc = func(ctx context.Context, actor entity.Actor, in stockout.QuantityDecisionInput) (*entity.Approval, error)

func (h *ApprovalHandler) decide(c *fiber.Ctx, fn decideFunc) error {
	var in dto.QuantityDecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	approval, err := fn(c.UserContext(), GetActor(c), stockout.QuantityDecisionInput{
		LineItemID:        c.Params("id"),
		Quantity:          in.Quantity,
		Reason:            in.Reason,
		ExpectedRemaining: in.ExpectedRemaining,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toApprovalResponse(*approval))
}

// AssignWarehouse godoc
// @Summary      Asignar bodega a una aprobación de cantidad (L2) y reservar la salida
// @Tags         approvals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la aprobación L1"
// @Param        body  body  dto.AssignWarehouseRequest  true  "warehouse_id, quantity, conversion_rate, expected_unassigned, expected_available"
// @Success      201   {object}  dto.AssignmentResponse
// @Failure      400   {object}  dto.ErrorResponse  "field = remaining_to_assign | available_stock"
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/approvals/{id}/assignments [post]
func (h *ApprovalHandler) AssignWarehouse(c *fiber.Ctx) error {
	var in dto.AssignWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.approvals.AssignWarehouse(c.UserContext(), GetActor(c), stockout.AssignWarehouseInput{
		ApprovalID:         c.Params("id"),
		WarehouseID:        in.WarehouseID,
		Quantity:           in.Quantity,
		ConversionRate:     in.ConversionRate,
		ExpectedUnassigned: in.ExpectedUnassigned,
		ExpectedAvailable:  in.ExpectedAvailable,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AssignmentResponse{
		Assignment: toApprovalResponse(out.Approval),
		Movement:   toMovementResponse(out.Movement),
	})
}

// Execute godoc
// @Summary      Ejecutar una asignación de bodega (descuenta el saldo)
// @Tags         approvals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la asignación L2"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "ya ejecutada"
// @Router       /api/assignments/{id}/execute [post]
func (h *ApprovalHandler) Execute(c *fiber.Ctx) error {
	mov, err := h.execution.Execute(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponse(*mov))
}
