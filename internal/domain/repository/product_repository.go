package repository

import (
	"context"

	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo de ítems (DIP).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
