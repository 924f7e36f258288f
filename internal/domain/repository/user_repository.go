package repository

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// UserRepository es el puerto de persistencia de usuarios. El core solo
// necesita la identidad del caller para estampar recorder/modifier.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}
