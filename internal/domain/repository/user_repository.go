package repository

import (
	"context"

	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	// Create devuelve domain.ErrAlreadyExists si el email ya está registrado.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByEmail busca sin distinguir mayúsculas; nil, nil si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
