package repository

import (
	"context"

	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

// RequestFilter filtros del listado de solicitudes.
type RequestFilter struct {
	RequesterID string
	Status      string
	OnlyActive  bool
	Limit       int
	Offset      int
}

// StockOutRequestRepository define el puerto de persistencia para solicitudes de salida.
type StockOutRequestRepository interface {
	Create(ctx context.Context, req *entity.StockOutRequest) error
	GetByID(ctx context.Context, id string) (*entity.StockOutRequest, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.StockOutRequest, error)
	// NextNumber reserva el siguiente número legible (SAL-000001, ...).
	NextNumber(ctx context.Context) (string, error)
	// Update persiste Status, Active, CancelledAt y UpdatedAt.
	Update(ctx context.Context, req *entity.StockOutRequest) error
	List(ctx context.Context, filter RequestFilter) ([]*entity.StockOutRequest, error)
}
