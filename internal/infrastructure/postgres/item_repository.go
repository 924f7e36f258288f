package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, code, condition, unit, base_quantity, current_quantity,
	created_by, created_at, updated_by, updated_at, deleted_by, deleted_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable
// con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar
// pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// CreateMany inserta un lote de ítems nuevos.
func (r *ItemRepo) CreateMany(ctx context.Context, items []*entity.Item) error {
	query := `
		INSERT INTO items (id, name, code, condition, unit, base_quantity, current_quantity, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, it := range items {
		_, err := r.q.Exec(ctx, query,
			it.ID, it.Name, it.Code, it.Condition, it.Unit,
			it.BaseQuantity, it.CurrentQuantity, it.CreatedBy, it.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un ítem activo por ID. Devuelve nil si no existe o fue eliminado.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND deleted_at IS NULL`
	var it entity.Item
	err := r.q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.Name, &it.Code, &it.Condition, &it.Unit,
		&it.BaseQuantity, &it.CurrentQuantity,
		&it.CreatedBy, &it.CreatedAt, &it.UpdatedBy, &it.UpdatedAt, &it.DeletedBy, &it.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Update persiste los campos editables y desplaza current_quantity por
// baseDelta en el mismo UPDATE, para no pisar ajustes concurrentes del motor
// de circulación.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item, baseDelta int64) error {
	query := `
		UPDATE items
		SET name = $2, code = $3, condition = $4, unit = $5, base_quantity = $6,
		    current_quantity = current_quantity + $7, updated_by = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Code, item.Condition, item.Unit,
		item.BaseQuantity, baseDelta, item.UpdatedBy, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDeleteMany marca los ítems como eliminados estampando actor y fecha.
// Devuelve cuántos quedaron marcados (ids inexistentes o ya eliminados no cuentan).
func (r *ItemRepo) SoftDeleteMany(ctx context.Context, ids []string, actorID string, at time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE items SET deleted_by = $2, deleted_at = $3
		WHERE id = ANY($1) AND deleted_at IS NULL`,
		ids, actorID, at,
	)
	if err != nil {
		return 0, fmt.Errorf("soft delete items: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// ListActiveFlat devuelve los ítems raíz activos según filtro más sus hijos de
// primer nivel, como nodos planos + aristas. Raíz: no aparece como hijo en
// ninguna arista.
func (r *ItemRepo) ListActiveFlat(ctx context.Context, filter repository.ItemFilter) ([]entity.Item, []entity.HierarchyEdge, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		WHERE i.deleted_at IS NULL
		  AND NOT EXISTS (SELECT 1 FROM item_hierarchy h WHERE h.child_id = i.id)`
	switch filter {
	case repository.FilterBorrowed:
		query += ` AND i.current_quantity < i.base_quantity`
	case repository.FilterNotBorrowed:
		query += ` AND i.current_quantity > 0`
	}
	query += ` ORDER BY i.name, i.created_at`

	roots, err := r.scanItems(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	return r.appendChildren(ctx, roots)
}

// ListFlatByIDs igual que ListActiveFlat pero restringido a raíces con esos ids.
func (r *ItemRepo) ListFlatByIDs(ctx context.Context, ids []string) ([]entity.Item, []entity.HierarchyEdge, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		WHERE i.id = ANY($1) AND i.deleted_at IS NULL
		ORDER BY i.name, i.created_at`
	roots, err := r.scanItems(ctx, query, ids)
	if err != nil {
		return nil, nil, err
	}
	return r.appendChildren(ctx, roots)
}

func (r *ItemRepo) appendChildren(ctx context.Context, roots []entity.Item) ([]entity.Item, []entity.HierarchyEdge, error) {
	if len(roots) == 0 {
		return roots, nil, nil
	}
	rootIDs := make([]string, 0, len(roots))
	for _, it := range roots {
		rootIDs = append(rootIDs, it.ID)
	}

	query := `
		SELECT h.parent_id, c.id, c.name, c.code, c.condition, c.unit, c.base_quantity, c.current_quantity,
		       c.created_by, c.created_at, c.updated_by, c.updated_at, c.deleted_by, c.deleted_at
		FROM item_hierarchy h
		JOIN items c ON c.id = h.child_id
		WHERE h.parent_id = ANY($1) AND c.deleted_at IS NULL
		ORDER BY c.name`
	rows, err := r.q.Query(ctx, query, rootIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	nodes := roots
	var edges []entity.HierarchyEdge
	for rows.Next() {
		var parentID string
		var it entity.Item
		if err := rows.Scan(
			&parentID, &it.ID, &it.Name, &it.Code, &it.Condition, &it.Unit,
			&it.BaseQuantity, &it.CurrentQuantity,
			&it.CreatedBy, &it.CreatedAt, &it.UpdatedBy, &it.UpdatedAt, &it.DeletedBy, &it.DeletedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scan child: %w", err)
		}
		nodes = append(nodes, it)
		edges = append(edges, entity.HierarchyEdge{ParentID: parentID, ChildID: it.ID})
	}
	return nodes, edges, rows.Err()
}

// ListNameSuggestions devuelve un ítem por nombre distinto (autocompletar formularios).
func (r *ItemRepo) ListNameSuggestions(ctx context.Context) ([]entity.Item, error) {
	query := `
		SELECT DISTINCT ON (name) ` + itemColumns + `
		FROM items WHERE deleted_at IS NULL
		ORDER BY name, created_at`
	return r.scanItems(ctx, query)
}

// AdjustQuantity aplica un delta atómico a current_quantity y estampa
// modificador y timestamp. No valida contra base_quantity.
func (r *ItemRepo) AdjustQuantity(ctx context.Context, itemID string, delta int64, actorID string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE items
		SET current_quantity = current_quantity + $2, updated_by = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		itemID, delta, actorID,
	)
	if err != nil {
		return fmt.Errorf("adjust quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustQuantities aplica un lote de deltas, cada uno por separado: el fallo
// de un ítem no aborta al resto, y el resultado reporta qué falló.
func (r *ItemRepo) AdjustQuantities(ctx context.Context, deltas []repository.QuantityDelta, actorID string) (repository.BulkResult, error) {
	var res repository.BulkResult
	for _, d := range deltas {
		if err := r.AdjustQuantity(ctx, d.ID, d.Delta, actorID); err != nil {
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, d.ID)
			continue
		}
		res.Applied++
	}
	return res, nil
}

func (r *ItemRepo) scanItems(ctx context.Context, query string, args ...any) ([]entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Code, &it.Condition, &it.Unit,
			&it.BaseQuantity, &it.CurrentQuantity,
			&it.CreatedBy, &it.CreatedAt, &it.UpdatedBy, &it.UpdatedAt, &it.DeletedBy, &it.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
