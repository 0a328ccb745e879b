package stockout

import (
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

// LineTotals cantidades agregadas de una línea, derivadas del libro de aprobaciones y movimientos.
type LineTotals struct {
	Requested int64
	Approved  int64 // Σ L1 aprobadas
	Rejected  int64 // Σ L1 rechazadas
	Assigned  int64 // Σ L2
	Executed  int64 // Σ L2 cuyo movimiento está completed
}

// Remaining cantidad aún sin decisión L1.
func (t LineTotals) Remaining() int64 { return t.Requested - t.Approved - t.Rejected }

// Unassigned cantidad aprobada en L1 todavía sin bodega.
func (t LineTotals) Unassigned() int64 { return t.Approved - t.Assigned }

// LineProjection estado derivado de una línea.
type LineProjection struct {
	LineTotals
	Status string
}

// ProjectLineItem deriva el estado de una línea. Función pura: depende solo de sus argumentos,
// no del orden de los slices. Aprobaciones o movimientos de otras líneas se ignoran.
func ProjectLineItem(item entity.LineItem, approvals []entity.Approval, movements []entity.Movement) LineProjection {
	t := SumLine(item, approvals, movements)
	return LineProjection{LineTotals: t, Status: lineStatus(item, t, hasDecisions(item, approvals))}
}

// SumLine agrega las cantidades de una línea.
func SumLine(item entity.LineItem, approvals []entity.Approval, movements []entity.Movement) LineTotals {
	t := LineTotals{Requested: item.RequestedQuantity}
	completed := make(map[string]bool, len(movements))
	for _, m := range movements {
		if m.Type == entity.MovementTypeOut && m.ApprovalID != "" && m.Status == entity.MovementStatusCompleted {
			completed[m.ApprovalID] = true
		}
	}
	for _, a := range approvals {
		if a.LineItemID != item.ID {
			continue
		}
		switch a.Layer {
		case entity.LayerQuantity:
			if a.Decision == entity.DecisionApproved {
				t.Approved += a.ApprovedQuantity
			} else {
				t.Rejected += a.ApprovedQuantity
			}
		case entity.LayerWarehouse:
			t.Assigned += a.ApprovedQuantity
			if completed[a.ID] {
				t.Executed += a.ApprovedQuantity
			}
		}
	}
	return t
}

func hasDecisions(item entity.LineItem, approvals []entity.Approval) bool {
	for _, a := range approvals {
		if a.LineItemID == item.ID {
			return true
		}
	}
	return false
}

func lineStatus(item entity.LineItem, t LineTotals, decided bool) string {
	if item.Cancelled {
		return entity.LineStatusCancelled
	}
	if !decided {
		return entity.LineStatusPending
	}
	if t.Approved == 0 {
		if t.Remaining() == 0 {
			return entity.LineStatusRejected
		}
		// rechazo parcial: ya hubo decisión, el resto sigue abierto
		return entity.LineStatusPartiallyApproved
	}
	if t.Unassigned() > 0 {
		return entity.LineStatusAwaitingAdmin
	}
	switch {
	case t.Executed == 0 && t.Remaining() == 0:
		return entity.LineStatusFullyApproved
	case t.Executed == 0:
		return entity.LineStatusPartiallyApproved
	case t.Executed == t.Assigned && t.Remaining() == 0:
		return entity.LineStatusExecuted
	default:
		return entity.LineStatusPartiallyExecuted
	}
}

// ProjectRequest agrega los estados de las líneas. Las líneas canceladas quedan fuera del agregado.
// Una línea está resuelta cuando ya no le queda cantidad sin decisión L1.
func ProjectRequest(req entity.StockOutRequest, lines []LineProjection) string {
	if req.IsCancelled() {
		return entity.RequestStatusCancelled
	}
	var total, pending, rejected, executed, inExecution, resolved int
	for _, l := range lines {
		if l.Status == entity.LineStatusCancelled {
			continue
		}
		total++
		switch l.Status {
		case entity.LineStatusPending:
			pending++
		case entity.LineStatusRejected:
			rejected++
		case entity.LineStatusExecuted:
			executed++
			inExecution++
		case entity.LineStatusPartiallyExecuted:
			inExecution++
		}
		if l.Status != entity.LineStatusPending && l.Remaining() == 0 {
			resolved++
		}
	}
	switch {
	case total == 0 && len(lines) > 0:
		return entity.RequestStatusCancelled
	case pending == total:
		return entity.RequestStatusPending
	case rejected == total:
		return entity.RequestStatusRejected
	case executed+rejected == total:
		return entity.RequestStatusExecuted
	case inExecution > 0:
		return entity.RequestStatusPartiallyExecuted
	case resolved == total:
		return entity.RequestStatusApproved
	default:
		return entity.RequestStatusPartiallyApproved
	}
}
