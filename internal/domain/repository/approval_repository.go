package repository

import (
	"context"

	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

// ApprovalRepository define el puerto del libro de aprobaciones (append-only: sin Update ni Delete).
type ApprovalRepository interface {
	Create(ctx context.Context, approval *entity.Approval) error
	GetByID(ctx context.Context, id string) (*entity.Approval, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Approval, error)
	ListByLineItem(ctx context.Context, lineItemID string) ([]*entity.Approval, error)
	ListByRequest(ctx context.Context, requestID string) ([]*entity.Approval, error)
	ListChildren(ctx context.Context, parentID string) ([]*entity.Approval, error)
}
