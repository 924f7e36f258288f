package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var _ repository.CirculationItemRepository = (*CirculationItemRepo)(nil)

// CirculationItemRepo implementación de CirculationItemRepository sobre PostgreSQL.
type CirculationItemRepo struct {
	q Querier
}

// NewCirculationItemRepository construye el adaptador de líneas. Pasar pool o tx (Querier).
func NewCirculationItemRepository(q Querier) *CirculationItemRepo {
	return &CirculationItemRepo{q: q}
}

// CreateMany inserta un lote de líneas.
func (r *CirculationItemRepo) CreateMany(ctx context.Context, lines []*entity.CirculationItem) error {
	query := `
		INSERT INTO circulation_items (id, form_id, item_id, status, notes, qty_recorded, qty_not_yet_returned, previous_item_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, line := range lines {
		_, err := r.q.Exec(ctx, query,
			line.ID, line.FormID, line.ItemID, line.Status, line.Notes,
			line.QtyRecorded, line.QtyNotYetReturned, line.PreviousItemID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert circulation item: %w", err)
		}
	}
	return nil
}

// ListByForm lista las líneas de un formulario.
func (r *CirculationItemRepo) ListByForm(ctx context.Context, formID string) ([]entity.CirculationItem, error) {
	query := `
		SELECT id, form_id, item_id, status, notes, qty_recorded, qty_not_yet_returned, previous_item_id
		FROM circulation_items WHERE form_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, formID)
	if err != nil {
		return nil, fmt.Errorf("list circulation items: %w", err)
	}
	defer rows.Close()

	var out []entity.CirculationItem
	for rows.Next() {
		var line entity.CirculationItem
		if err := rows.Scan(
			&line.ID, &line.FormID, &line.ItemID, &line.Status, &line.Notes,
			&line.QtyRecorded, &line.QtyNotYetReturned, &line.PreviousItemID,
		); err != nil {
			return nil, fmt.Errorf("scan circulation item: %w", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

// ListDetailByForm lista las líneas con los datos del ítem embebidos.
func (r *CirculationItemRepo) ListDetailByForm(ctx context.Context, formID string) ([]repository.LineDetail, error) {
	query := `
		SELECT ci.id, ci.form_id, ci.item_id, ci.status, ci.notes, ci.qty_recorded,
		       ci.qty_not_yet_returned, ci.previous_item_id,
		       i.name, i.code, i.unit, i.base_quantity, i.current_quantity
		FROM circulation_items ci
		JOIN items i ON i.id = ci.item_id
		WHERE ci.form_id = $1
		ORDER BY i.name`
	rows, err := r.q.Query(ctx, query, formID)
	if err != nil {
		return nil, fmt.Errorf("list circulation item detail: %w", err)
	}
	defer rows.Close()

	var out []repository.LineDetail
	for rows.Next() {
		var d repository.LineDetail
		if err := rows.Scan(
			&d.ID, &d.FormID, &d.ItemID, &d.Status, &d.Notes, &d.QtyRecorded,
			&d.QtyNotYetReturned, &d.PreviousItemID,
			&d.ItemName, &d.ItemCode, &d.ItemUnit, &d.ItemBaseQuantity, &d.ItemCurrentQuantity,
		); err != nil {
			return nil, fmt.Errorf("scan circulation item detail: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update persiste QtyRecorded, Notes y QtyNotYetReturned de una línea.
func (r *CirculationItemRepo) Update(ctx context.Context, line *entity.CirculationItem) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE circulation_items
		SET notes = $2, qty_recorded = $3, qty_not_yet_returned = $4
		WHERE id = $1`,
		line.ID, line.Notes, line.QtyRecorded, line.QtyNotYetReturned,
	)
	if err != nil {
		return fmt.Errorf("update circulation item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMany elimina líneas por id.
func (r *CirculationItemRepo) DeleteMany(ctx context.Context, ids []string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM circulation_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete circulation items: %w", err)
	}
	return nil
}

// DeleteByForm elimina todas las líneas de un formulario.
func (r *CirculationItemRepo) DeleteByForm(ctx context.Context, formID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM circulation_items WHERE form_id = $1`, formID)
	if err != nil {
		return fmt.Errorf("delete circulation items by form: %w", err)
	}
	return nil
}

// AdjustNotReturned aplica incrementos atómicos a qty_not_yet_returned de
// líneas de préstamo, cada delta por separado (misma semántica best-effort que
// el ledger de ítems).
func (r *CirculationItemRepo) AdjustNotReturned(ctx context.Context, deltas []repository.QuantityDelta) (repository.BulkResult, error) {
	var res repository.BulkResult
	for _, d := range deltas {
		cmd, err := r.q.Exec(ctx, `
			UPDATE circulation_items
			SET qty_not_yet_returned = qty_not_yet_returned + $2
			WHERE id = $1 AND qty_not_yet_returned IS NOT NULL`,
			d.ID, d.Delta,
		)
		if err != nil || cmd.RowsAffected() == 0 {
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, d.ID)
			continue
		}
		res.Applied++
	}
	return res, nil
}
