package stockout

import (
	"context"

	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
	"github.com/jhoicas/Salidas-api/internal/domain/stockout"
)

// LineView línea con su proyección de estado y cantidades.
type LineView struct {
	Item       entity.LineItem
	Projection stockout.LineProjection
}

// RequestView solicitud con sus líneas, su libro de aprobaciones y los movimientos ligados.
// Los estados se recalculan en cada lectura; las columnas persistidas son solo caché.
type RequestView struct {
	Request   entity.StockOutRequest
	Status    string
	Lines     []LineView
	Approvals []entity.Approval
	Movements []entity.Movement
}

// Line devuelve la vista de una línea por ID.
func (v *RequestView) Line(id string) (LineView, bool) {
	for _, l := range v.Lines {
		if l.Item.ID == id {
			return l, true
		}
	}
	return LineView{}, false
}

// loadView lee la solicitud completa dentro de tx y proyecta sus estados.
func loadView(ctx context.Context, tx repository.Tx, requestID string) (*RequestView, error) {
	req, err := tx.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.NotFound("request", requestID)
	}
	items, err := tx.LineItems.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	approvals, err := tx.Approvals.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	var assignmentIDs []string
	for _, a := range approvals {
		if a.IsWarehouse() {
			assignmentIDs = append(assignmentIDs, a.ID)
		}
	}
	var movements []*entity.Movement
	if len(assignmentIDs) > 0 {
		movements, err = tx.Movements.ListByApprovalIDs(ctx, assignmentIDs)
		if err != nil {
			return nil, err
		}
	}

	v := &RequestView{
		Request:   *req,
		Approvals: derefAll(approvals),
		Movements: derefAll(movements),
	}
	projections := make([]stockout.LineProjection, 0, len(items))
	for _, it := range items {
		p := stockout.ProjectLineItem(*it, v.Approvals, v.Movements)
		v.Lines = append(v.Lines, LineView{Item: *it, Projection: p})
		projections = append(projections, p)
	}
	v.Status = stockout.ProjectRequest(*req, projections)
	return v, nil
}

// refreshView recalcula la proyección y actualiza las columnas caché que hayan cambiado.
// Se invoca dentro de la misma transacción que cada escritura de aprobación o movimiento.
func refreshView(ctx context.Context, tx repository.Tx, requestID string, opts Options) (*RequestView, error) {
	v, err := loadView(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	now := opts.Now()
	for i := range v.Lines {
		l := &v.Lines[i]
		if l.Item.Status == l.Projection.Status && l.Item.RemainingQuantity == l.Projection.Remaining() {
			continue
		}
		l.Item.Status = l.Projection.Status
		l.Item.RemainingQuantity = l.Projection.Remaining()
		l.Item.UpdatedAt = now
		if err := tx.LineItems.Update(ctx, &l.Item); err != nil {
			return nil, err
		}
	}
	if v.Request.Status != v.Status {
		v.Request.Status = v.Status
		v.Request.UpdatedAt = now
		if err := tx.Requests.Update(ctx, &v.Request); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// lockOpenRequest bloquea la solicitud y verifica que acepte decisiones.
func lockOpenRequest(ctx context.Context, tx repository.Tx, requestID string) (*entity.StockOutRequest, error) {
	req, err := tx.Requests.GetForUpdate(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.NotFound("request", requestID)
	}
	if !req.Active {
		return nil, domain.InvalidState("la solicitud %s está desactivada", req.Number)
	}
	if req.IsCancelled() {
		return nil, domain.InvalidState("la solicitud %s está cancelada", req.Number)
	}
	return req, nil
}

func derefAll[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, p := range in {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
