package dto

import "time"

// ReceiptRequest body para POST /api/inventory/receipts (entrada de stock).
type ReceiptRequest struct {
	ItemID      string `json:"item_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
	Reference   string `json:"reference"`
}

// MovementResponse movimiento del libro de inventario.
type MovementResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	ItemID      string     `json:"item_id"`
	WarehouseID string     `json:"warehouse_id"`
	Quantity    int64      `json:"quantity"`
	Status      string     `json:"status"`
	ApprovalID  string     `json:"approval_id,omitempty"`
	Reference   string     `json:"reference,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedBy string     `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// BalanceResponse saldo de un par (ítem, bodega).
type BalanceResponse struct {
	ItemID      string `json:"item_id"`
	WarehouseID string `json:"warehouse_id"`
	Balance     int64  `json:"balance"`
	Reserved    int64  `json:"reserved"`
	Available   int64  `json:"available"`
}

// WarehouseResponse bodega del directorio.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
