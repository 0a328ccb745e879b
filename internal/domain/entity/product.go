package entity

import "time"

// Product representa un ítem del catálogo. El motor de salidas solo lo consulta
// (existencia y nombre para mostrar); nunca lo modifica.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	UnitMeasure string // unidad nativa de las cantidades de inventario
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
