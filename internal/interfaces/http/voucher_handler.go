package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Salidas-api/internal/application/stockout"
)

// VoucherHandler descarga del comprobante de salida (protegido).
type VoucherHandler struct {
	uc *stockout.VoucherUseCase
}

// NewVoucherHandler construye el handler.
func NewVoucherHandler(uc *stockout.VoucherUseCase) *VoucherHandler {
	return &VoucherHandler{uc: uc}
}

// Download godoc
// @Summary      Descargar comprobante de salida (PDF)
// @Description  Solo para solicitudes con al menos una salida ejecutada.
// @Tags         stock-outs
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "sin salidas ejecutadas"
// @Router       /api/stock-outs/{id}/voucher [get]
func (h *VoucherHandler) Download(c *fiber.Ctx) error {
	doc, filename, err := h.uc.Download(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(doc)
}
