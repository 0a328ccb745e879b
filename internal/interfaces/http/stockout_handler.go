package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Salidas-api/internal/application/dto"
	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
	"github.com/jhoicas/Salidas-api/pkg/logger"
)

// EventSource suscripción a eventos de una solicitud (lo implementa notify.Broker).
type EventSource interface {
	Subscribe(requestID string) (<-chan stockout.Event, func())
}

// keepAliveEvery intervalo de comentarios SSE; detecta clientes desconectados.
var keepAliveEvery = 15 * time.Second

// StockOutHandler maneja las peticiones HTTP de solicitudes de salida (protegido).
type StockOutHandler struct {
	uc     *stockout.RequestUseCase
	events EventSource
	log    *logger.Logger
}

// NewStockOutHandler construye el handler.
func NewStockOutHandler(uc *stockout.RequestUseCase, events EventSource, log *logger.Logger) *StockOutHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &StockOutHandler{uc: uc, events: events, log: log}
}

// Create godoc
// @Summary      Crear solicitud de salida
// @Tags         stock-outs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockOutRequest  true  "reason, notes, line_items[item_id, quantity, conversion_rate]"
// @Success      201   {object}  dto.StockOutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/stock-outs [post]
func (h *StockOutHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]stockout.LineInput, 0, len(in.LineItems))
	for _, l := range in.LineItems {
		lines = append(lines, stockout.LineInput{ItemID: l.ItemID, Quantity: l.Quantity, ConversionRate: l.ConversionRate})
	}
	view, err := h.uc.CreateRequest(c.UserContext(), GetActor(c), stockout.CreateRequestInput{
		Reason:      in.Reason,
		Notes:       in.Notes,
		ExternalRef: in.ExternalRef,
		Lines:       lines,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockOutResponse(view))
}

// List godoc
// @Summary      Listar solicitudes de salida
// @Description  El solicitante solo ve las suyas. status filtra sobre el estado recalculado.
// @Tags         stock-outs
// @Security     Bearer
// @Produce      json
// @Param        status            query  string  false  "pending | partially_approved | approved | partially_executed | executed | rejected | cancelled"
// @Param        include_inactive  query  bool    false  "incluir desactivadas"
// @Param        limit             query  int     false  "máx. 100"
// @Param        offset            query  int     false  "desplazamiento"
// @Success      200  {object}  dto.StockOutListResponse
// @Router       /api/stock-outs [get]
func (h *StockOutHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	actor := GetActor(c)
	filter := repository.RequestFilter{
		Status:     c.Query("status"),
		OnlyActive: !c.QueryBool("include_inactive", false),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if actor.Role == entity.RoleRequester {
		filter.RequesterID = actor.ID
	}
	views, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.StockOutListResponse{Items: make([]dto.StockOutResponse, 0, len(views)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, v := range views {
		out.Items = append(out.Items, toStockOutResponse(v))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud de salida
// @Tags         stock-outs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockOutResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-outs/{id} [get]
func (h *StockOutHandler) GetByID(c *fiber.Ctx) error {
	view, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockOutResponse(view))
}

// Cancel godoc
// @Summary      Cancelar solicitud (solo el solicitante, solo en pending)
// @Tags         stock-outs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockOutResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-outs/{id}/cancel [post]
func (h *StockOutHandler) Cancel(c *fiber.Ctx) error {
	view, err := h.uc.Cancel(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockOutResponse(view))
}

// Deactivate godoc
// @Summary      Desactivar solicitud (borrado lógico)
// @Tags         stock-outs
// @Security     Bearer
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-outs/{id} [delete]
func (h *StockOutHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Libro de aprobaciones de la solicitud (L1 y L2)
// @Tags         stock-outs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {array}   dto.ApprovalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-outs/{id}/approvals [get]
func (h *StockOutHandler) History(c *fiber.Ctx) error {
	approvals, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		out = append(out, toApprovalResponse(a))
	}
	return c.JSON(out)
}

// Events godoc
// @Summary      Eventos de ejecución de la solicitud (Server-Sent Events)
// @Description  Aviso de refresco best-effort; el estado se relee con GET /api/stock-outs/{id}.
// @Tags         stock-outs
// @Security     Bearer
// @Produce      text/event-stream
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-outs/{id}/events [get]
func (h *StockOutHandler) Events(c *fiber.Ctx) error {
	requestID := c.Params("id")
	if _, err := h.uc.Get(c.UserContext(), requestID); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	// La suscripción vive solo mientras corre el writer: si fasthttp nunca lo invoca no queda nada registrado.
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		h.stream(w, requestID)
	})
	return nil
}

// stream suscribe, escribe eventos y keep-alives hasta que el cliente se desconecta, y libera la suscripción.
func (h *StockOutHandler) stream(w *bufio.Writer, requestID string) {
	events, cancel := h.events.Subscribe(requestID)
	defer cancel()
	ticker := time.NewTicker(keepAliveEvery)
	defer ticker.Stop()
	if err := writeSSEComment(w, "suscrito"); err != nil {
		return
	}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeSSEEvent(w, ev); err != nil {
				h.log.Debug().Err(err).Str("request_id", requestID).Msg("cliente SSE desconectado")
				return
			}
		case <-ticker.C:
			if err := writeSSEComment(w, "keep-alive"); err != nil {
				return
			}
		}
	}
}

func writeSSEEvent(w *bufio.Writer, ev stockout.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	return w.Flush()
}

func writeSSEComment(w *bufio.Writer, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	return w.Flush()
}
