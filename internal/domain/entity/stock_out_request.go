package entity

import "time"

// Motivos (caso de uso) de una solicitud de salida.
const (
	ReasonFulfillment = "fulfillment"
	ReasonConsumption = "consumption"
	ReasonDamage      = "damage"
	ReasonLoss        = "loss"
	ReasonTransfer    = "transfer"
	ReasonAdjustment  = "adjustment"
)

// ValidReason indica si el motivo pertenece al catálogo cerrado.
func ValidReason(r string) bool {
	switch r {
	case ReasonFulfillment, ReasonConsumption, ReasonDamage, ReasonLoss, ReasonTransfer, ReasonAdjustment:
		return true
	}
	return false
}

// Estados de una solicitud (derivados por el proyector; la columna es caché).
const (
	RequestStatusPending           = "pending"
	RequestStatusPartiallyApproved = "partially_approved"
	RequestStatusApproved          = "approved"
	RequestStatusPartiallyExecuted = "partially_executed"
	RequestStatusExecuted          = "executed"
	RequestStatusRejected          = "rejected"
	RequestStatusCancelled         = "cancelled"
)

// StockOutRequest solicitud de salida de inventario. Nunca se elimina: se desactiva (Active=false).
type StockOutRequest struct {
	ID          string
	Number      string // legible, ej. SAL-000042
	Status      string
	Reason      string
	Notes       string
	RequesterID string
	ExternalRef string // caso de negocio padre, opaco para el motor
	Active      bool
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCancelled indica si la solicitud fue cancelada por su solicitante.
func (r *StockOutRequest) IsCancelled() bool { return r.CancelledAt != nil }
