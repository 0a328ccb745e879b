package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (directorio de solo lectura).
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
