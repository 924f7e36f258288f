package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var _ repository.HierarchyRepository = (*HierarchyRepo)(nil)

// HierarchyRepo implementación de HierarchyRepository sobre PostgreSQL.
// Las aristas son filas (parent_id, child_id) con PK compuesta.
type HierarchyRepo struct {
	q Querier
}

// NewHierarchyRepository construye el adaptador de jerarquía. Pasar pool o tx (Querier).
func NewHierarchyRepository(q Querier) *HierarchyRepo {
	return &HierarchyRepo{q: q}
}

// ListByParent lista las aristas salientes de un padre.
func (r *HierarchyRepo) ListByParent(ctx context.Context, parentID string) ([]entity.HierarchyEdge, error) {
	rows, err := r.q.Query(ctx,
		`SELECT parent_id, child_id FROM item_hierarchy WHERE parent_id = $1 ORDER BY child_id`,
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list edges: %w", err)
	}
	defer rows.Close()

	var out []entity.HierarchyEdge
	for rows.Next() {
		var e entity.HierarchyEdge
		if err := rows.Scan(&e.ParentID, &e.ChildID); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertMany inserta aristas; las ya existentes se ignoran (la sincronización
// puede reintentar sin fallar).
func (r *HierarchyRepo) InsertMany(ctx context.Context, edges []entity.HierarchyEdge) error {
	query := `
		INSERT INTO item_hierarchy (parent_id, child_id) VALUES ($1, $2)
		ON CONFLICT (parent_id, child_id) DO NOTHING`
	for _, e := range edges {
		if _, err := r.q.Exec(ctx, query, e.ParentID, e.ChildID); err != nil {
			return fmt.Errorf("insert edge: %w", err)
		}
	}
	return nil
}

// DeleteMany elimina aristas concretas.
func (r *HierarchyRepo) DeleteMany(ctx context.Context, edges []entity.HierarchyEdge) error {
	for _, e := range edges {
		_, err := r.q.Exec(ctx,
			`DELETE FROM item_hierarchy WHERE parent_id = $1 AND child_id = $2`,
			e.ParentID, e.ChildID,
		)
		if err != nil {
			return fmt.Errorf("delete edge: %w", err)
		}
	}
	return nil
}
