package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/shopspring/decimal"
)

// ApprovalLayer discrimina las dos capas de decisión sobre una línea.
type ApprovalLayer string

const (
	LayerQuantity  ApprovalLayer = "quantity"  // L1: aprueba o rechaza cantidad
	LayerWarehouse ApprovalLayer = "warehouse" // L2: asigna cantidad aprobada a una bodega
)

// Decisiones.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Approval decisión registrada (append-only). Un único registro etiquetado por Layer:
//   - L1: sin padre ni bodega; RejectionReason obligatorio si Decision = rejected.
//   - L2: ParentApprovalID a una L1 aprobada, WarehouseID obligatorio, siempre approved.
type Approval struct {
	ID               string
	RequestID        string
	LineItemID       string
	Layer            ApprovalLayer
	ParentApprovalID string
	WarehouseID      string
	Decision         string
	ApprovedQuantity int64 // cantidad decidida (para un rechazo, la cantidad rechazada)
	ConversionRate   decimal.Decimal
	RejectionReason  string
	DecidedBy        string
	DecidedAt        time.Time
}

// IsQuantity indica si es una decisión L1.
func (a *Approval) IsQuantity() bool { return a.Layer == LayerQuantity }

// IsWarehouse indica si es una asignación L2.
func (a *Approval) IsWarehouse() bool { return a.Layer == LayerWarehouse }

// IsApproved indica si la decisión es de aprobación.
func (a *Approval) IsApproved() bool { return a.Decision == DecisionApproved }

// Validate verifica la forma del registro según su capa.
func (a *Approval) Validate() error {
	if a.ApprovedQuantity <= 0 {
		return domain.Validation("quantity", "debe ser mayor que 0 (recibido %d)", a.ApprovedQuantity)
	}
	if a.DecidedBy == "" {
		return domain.Validation("decided_by", "es requerido")
	}
	switch a.Layer {
	case LayerQuantity:
		if a.ParentApprovalID != "" || a.WarehouseID != "" {
			return domain.Validation("layer", "una decisión de cantidad no lleva bodega ni aprobación padre")
		}
		switch a.Decision {
		case DecisionApproved:
			if a.RejectionReason != "" {
				return domain.Validation("rejection_reason", "solo aplica a rechazos")
			}
		case DecisionRejected:
			if strings.TrimSpace(a.RejectionReason) == "" {
				return domain.Validation("rejection_reason", "es requerido al rechazar")
			}
		default:
			return domain.Validation("decision", "valor desconocido %q", a.Decision)
		}
	case LayerWarehouse:
		if a.ParentApprovalID == "" {
			return domain.Validation("parent_approval_id", "es requerido en una asignación de bodega")
		}
		if a.WarehouseID == "" {
			return domain.Validation("warehouse_id", "es requerido en una asignación de bodega")
		}
		if a.Decision != DecisionApproved {
			return domain.Validation("decision", "una asignación de bodega siempre es approved")
		}
	default:
		return domain.Validation("layer", "capa desconocida %q", a.Layer)
	}
	return nil
}
