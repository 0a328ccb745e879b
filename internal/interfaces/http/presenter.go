package http

import (
	"github.com/jhoicas/Salidas-api/internal/application/dto"
	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

func toStockOutResponse(v *stockout.RequestView) dto.StockOutResponse {
	out := dto.StockOutResponse{
		ID:          v.Request.ID,
		Number:      v.Request.Number,
		Status:      v.Status,
		Reason:      v.Request.Reason,
		Notes:       v.Request.Notes,
		ExternalRef: v.Request.ExternalRef,
		RequesterID: v.Request.RequesterID,
		Active:      v.Request.Active,
		CancelledAt: v.Request.CancelledAt,
		CreatedAt:   v.Request.CreatedAt,
		UpdatedAt:   v.Request.UpdatedAt,
		LineItems:   make([]dto.LineItemResponse, 0, len(v.Lines)),
	}
	for _, l := range v.Lines {
		p := l.Projection
		out.LineItems = append(out.LineItems, dto.LineItemResponse{
			ID:                 l.Item.ID,
			ItemID:             l.Item.ItemID,
			Status:             p.Status,
			ConversionRate:     l.Item.ConversionRate,
			RequestedQuantity:  p.Requested,
			ApprovedQuantity:   p.Approved,
			RejectedQuantity:   p.Rejected,
			RemainingQuantity:  p.Remaining(),
			AssignedQuantity:   p.Assigned,
			UnassignedQuantity: p.Unassigned(),
			ExecutedQuantity:   p.Executed,
		})
	}
	return out
}

func toApprovalResponse(a entity.Approval) dto.ApprovalResponse {
	out := dto.ApprovalResponse{
		ID:               a.ID,
		RequestID:        a.RequestID,
		LineItemID:       a.LineItemID,
		Layer:            string(a.Layer),
		ParentApprovalID: a.ParentApprovalID,
		WarehouseID:      a.WarehouseID,
		Decision:         a.Decision,
		Quantity:         a.ApprovedQuantity,
		RejectionReason:  a.RejectionReason,
		DecidedBy:        a.DecidedBy,
		DecidedAt:        a.DecidedAt,
	}
	if !a.ConversionRate.IsZero() {
		rate := a.ConversionRate
		out.ConversionRate = &rate
	}
	return out
}

func toMovementResponse(m entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		Type:        m.Type,
		ItemID:      m.ItemID,
		WarehouseID: m.WarehouseID,
		Quantity:    m.Quantity,
		Status:      m.Status,
		ApprovalID:  m.ApprovalID,
		Reference:   m.Reference,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		CompletedBy: m.CompletedBy,
		CompletedAt: m.CompletedAt,
	}
}
