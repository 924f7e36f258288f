package repository

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// HierarchyRepository es el puerto de persistencia de aristas padre→hijo.
type HierarchyRepository interface {
	ListByParent(ctx context.Context, parentID string) ([]entity.HierarchyEdge, error)
	InsertMany(ctx context.Context, edges []entity.HierarchyEdge) error
	DeleteMany(ctx context.Context, edges []entity.HierarchyEdge) error
}
