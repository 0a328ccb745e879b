package repository

import (
	"context"

	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

// LineItemRepository define el puerto de persistencia para líneas de solicitud.
type LineItemRepository interface {
	Create(ctx context.Context, item *entity.LineItem) error
	GetByID(ctx context.Context, id string) (*entity.LineItem, error)
	GetForUpdate(ctx context.Context, id string) (*entity.LineItem, error)
	ListByRequest(ctx context.Context, requestID string) ([]*entity.LineItem, error)
	// Update persiste las columnas caché (Status, RemainingQuantity), Cancelled y UpdatedAt.
	Update(ctx context.Context, item *entity.LineItem) error
}
