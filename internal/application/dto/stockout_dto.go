package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockOutLineRequest línea pedida.
type CreateStockOutLineRequest struct {
	ItemID         string          `json:"item_id"`
	Quantity       int64           `json:"quantity"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

// CreateStockOutRequest body para POST /api/stock-outs.
type CreateStockOutRequest struct {
	Reason      string                      `json:"reason"`
	Notes       string                      `json:"notes"`
	ExternalRef string                      `json:"external_ref"`
	LineItems   []CreateStockOutLineRequest `json:"line_items"`
}

// QuantityDecisionRequest body para aprobar o rechazar cantidad de una línea.
// expected_remaining es el remaining_quantity mostrado al usuario (opcional).
type QuantityDecisionRequest struct {
	Quantity          int64  `json:"quantity"`
	Reason            string `json:"reason,omitempty"`
	ExpectedRemaining *int64 `json:"expected_remaining,omitempty"`
}

// AssignWarehouseRequest body para POST /api/approvals/:id/assignments.
type AssignWarehouseRequest struct {
	WarehouseID        string          `json:"warehouse_id"`
	Quantity           int64           `json:"quantity"`
	ConversionRate     decimal.Decimal `json:"conversion_rate"`
	ExpectedUnassigned *int64          `json:"expected_unassigned,omitempty"`
	ExpectedAvailable  *int64          `json:"expected_available,omitempty"`
}

// LineItemResponse línea con estado y cantidades recalculadas.
type LineItemResponse struct {
	ID                 string          `json:"id"`
	ItemID             string          `json:"item_id"`
	Status             string          `json:"status"`
	ConversionRate     decimal.Decimal `json:"conversion_rate"`
	RequestedQuantity  int64           `json:"requested_quantity"`
	ApprovedQuantity   int64           `json:"approved_quantity"`
	RejectedQuantity   int64           `json:"rejected_quantity"`
	RemainingQuantity  int64           `json:"remaining_quantity"`
	AssignedQuantity   int64           `json:"assigned_quantity"`
	UnassignedQuantity int64           `json:"unassigned_quantity"`
	ExecutedQuantity   int64           `json:"executed_quantity"`
}

// StockOutResponse solicitud de salida con sus líneas.
type StockOutResponse struct {
	ID          string             `json:"id"`
	Number      string             `json:"number"`
	Status      string             `json:"status"`
	Reason      string             `json:"reason"`
	Notes       string             `json:"notes,omitempty"`
	ExternalRef string             `json:"external_ref,omitempty"`
	RequesterID string             `json:"requester_id"`
	Active      bool               `json:"active"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	LineItems   []LineItemResponse `json:"line_items"`
}

// StockOutListResponse lista paginada de solicitudes.
type StockOutListResponse struct {
	Items []StockOutResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ApprovalResponse registro del libro de aprobaciones (L1 o L2).
type ApprovalResponse struct {
	ID               string           `json:"id"`
	RequestID        string           `json:"request_id"`
	LineItemID       string           `json:"line_item_id"`
	Layer            string           `json:"layer"`
	ParentApprovalID string           `json:"parent_approval_id,omitempty"`
	WarehouseID      string           `json:"warehouse_id,omitempty"`
	Decision         string           `json:"decision"`
	Quantity         int64            `json:"quantity"`
	ConversionRate   *decimal.Decimal `json:"conversion_rate,omitempty"`
	RejectionReason  string           `json:"rejection_reason,omitempty"`
	DecidedBy        string           `json:"decided_by"`
	DecidedAt        time.Time        `json:"decided_at"`
}

// AssignmentResponse asignación L2 con su movimiento reservado.
type AssignmentResponse struct {
	Assignment ApprovalResponse `json:"assignment"`
	Movement   MovementResponse `json:"movement"`
}
