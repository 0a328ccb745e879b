package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeIn  = "in"  // entrada (proceso externo de abastecimiento)
	MovementTypeOut = "out" // salida (producida por una asignación de bodega)
)

// Estados de un movimiento.
const (
	MovementStatusReserved  = "reserved"
	MovementStatusCompleted = "completed"
)

// Movement registro inmutable del libro de inventario. Solo Status (y los datos
// de ejecución) cambian, y únicamente de reserved a completed.
type Movement struct {
	ID          string
	Type        string // in, out
	ItemID      string
	WarehouseID string
	Quantity    int64 // siempre positivo; el signo lo da Type
	Status      string
	ApprovalID  string // asignación L2 que lo creó (solo salidas del motor)
	Reference   string // referencia externa opaca
	CreatedBy   string
	CreatedAt   time.Time
	CompletedBy string
	CompletedAt *time.Time
}

// IsReserved indica si el movimiento aún no afecta el saldo.
func (m *Movement) IsReserved() bool { return m.Status == MovementStatusReserved }

// StockTotals sumas del libro para un par (ítem, bodega).
type StockTotals struct {
	CompletedIn  int64
	CompletedOut int64
	ReservedOut  int64
}

// Balance saldo disponible físico: entradas completadas menos salidas completadas.
func (t StockTotals) Balance() int64 { return t.CompletedIn - t.CompletedOut }

// Available saldo descontando las reservas pendientes de ejecución.
func (t StockTotals) Available() int64 { return t.Balance() - t.ReservedOut }
