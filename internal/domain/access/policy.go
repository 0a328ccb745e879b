package access

import (
	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

// Action operación protegida del motor.
type Action string

const (
	ActionCreateRequest   Action = "create_request"
	ActionDecideQuantity  Action = "decide_quantity"
	ActionAssignWarehouse Action = "assign_warehouse"
	ActionExecute         Action = "execute"
	ActionDeactivate      Action = "deactivate"
	ActionReceiveStock    Action = "receive_stock"
	ActionManageUsers     Action = "manage_users"
)

var allowed = map[Action][]string{
	ActionCreateRequest:   {entity.RoleAdmin, entity.RoleApprover, entity.RoleWarehouse, entity.RoleRequester},
	ActionDecideQuantity:  {entity.RoleAdmin, entity.RoleApprover},
	ActionAssignWarehouse: {entity.RoleAdmin, entity.RoleWarehouse},
	ActionExecute:         {entity.RoleAdmin, entity.RoleWarehouse},
	ActionDeactivate:      {entity.RoleAdmin},
	ActionReceiveStock:    {entity.RoleAdmin, entity.RoleWarehouse},
	ActionManageUsers:     {entity.RoleAdmin},
}

// Authorize devuelve ErrPermission si el rol del actor no puede ejecutar la acción.
func Authorize(actor entity.Actor, action Action) error {
	if actor.ID == "" {
		return domain.Permission("actor no identificado")
	}
	for _, r := range allowed[action] {
		if r == actor.Role {
			return nil
		}
	}
	return domain.Permission("el rol %q no puede ejecutar %s", actor.Role, action)
}

// RolesFor lista los roles habilitados para una acción (lo usa el router para RequireRole).
func RolesFor(action Action) []string {
	return append([]string(nil), allowed[action]...)
}
