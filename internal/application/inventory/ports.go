package inventory

import (
	"context"

	"github.com/jhoicas/Salidas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y nada de lo escrito persiste.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}
