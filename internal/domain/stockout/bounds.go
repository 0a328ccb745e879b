package stockout

import "github.com/jhoicas/Salidas-api/internal/domain"

// Nombres de las cotas que aparecen en los errores; el front los usa para marcar el campo.
const (
	BoundQuantity          = "quantity"
	BoundRemainingQuantity = "remaining_quantity"
	BoundRemainingToAssign = "remaining_to_assign"
	BoundAvailableStock    = "available_stock"
)

// CheckBound valida 0 < quantity <= current contra la cota indicada.
//
// observed es el valor que el actor vio al armar el formulario (nil si no lo envió). Si la cota
// falla pero la cantidad sí cabía en lo observado y el valor cambió desde entonces, la causa es una
// escritura concurrente y se devuelve ErrConcurrencyConflict en lugar de ErrValidation.
func CheckBound(bound string, quantity, current int64, observed *int64) error {
	if quantity <= 0 {
		return domain.Validation(BoundQuantity, "debe ser mayor que 0 (recibido %d)", quantity)
	}
	if quantity <= current {
		return nil
	}
	if observed != nil && *observed != current && quantity <= *observed {
		return domain.Conflict(bound, "cambió de %d a %d desde la última lectura; cantidad solicitada %d", *observed, current, quantity)
	}
	return domain.Validation(bound, "cantidad %d excede %s = %d", quantity, bound, current)
}
