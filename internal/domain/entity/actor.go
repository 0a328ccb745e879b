package entity

// Roles reconocidos en el claim "role" del token.
const (
	RoleAdmin     = "admin"       // todo
	RoleApprover  = "aprobador"   // decisiones de cantidad (L1)
	RoleWarehouse = "bodeguero"   // asignación de bodega (L2) y ejecución
	RoleRequester = "solicitante" // crea y cancela sus propias solicitudes
)

// Actor identidad que ejecuta una operación; la provee la capa de presentación en cada llamada.
type Actor struct {
	ID   string
	Role string
}

// ValidRole indica si el rol pertenece al catálogo.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleApprover, RoleWarehouse, RoleRequester:
		return true
	}
	return false
}
