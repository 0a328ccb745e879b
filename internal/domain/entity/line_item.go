package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una línea (derivados por el proyector; la columna es caché).
const (
	LineStatusPending           = "pending"
	LineStatusRejected          = "rejected"
	LineStatusAwaitingAdmin     = "awaiting_admin"
	LineStatusPartiallyApproved = "partially_approved"
	LineStatusFullyApproved     = "fully_approved"
	LineStatusPartiallyExecuted = "partially_executed"
	LineStatusExecuted          = "executed"
	LineStatusCancelled         = "cancelled"
)

// LineItem línea de una solicitud: cantidad pedida de un ítem del catálogo.
// ConversionRate es solo para mostrar en unidad secundaria.
type LineItem struct {
	ID                string
	RequestID         string
	ItemID            string
	RequestedQuantity int64
	RemainingQuantity int64 // caché: requested - aprobado L1 - rechazado L1
	ConversionRate    decimal.Decimal
	Status            string
	Cancelled         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
