package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var _ repository.CirculationFormRepository = (*CirculationFormRepo)(nil)

const formColumns = `id, name, phone, notes, status, fully_returned, previous_form_id,
	recorded_by, recorded_at, updated_by, updated_at`

// CirculationFormRepo implementación de CirculationFormRepository sobre PostgreSQL.
type CirculationFormRepo struct {
	q Querier
}

// NewCirculationFormRepository construye el adaptador de formularios. Pasar pool o tx (Querier).
func NewCirculationFormRepository(q Querier) *CirculationFormRepo {
	return &CirculationFormRepo{q: q}
}

// Create persiste un formulario nuevo.
func (r *CirculationFormRepo) Create(ctx context.Context, form *entity.CirculationForm) error {
	query := `
		INSERT INTO circulation_forms (id, name, phone, notes, status, fully_returned, previous_form_id, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		form.ID, form.Name, form.Phone, form.Notes, form.Status,
		form.FullyReturned, form.PreviousFormID, form.RecordedBy, form.RecordedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert circulation form: %w", err)
	}
	return nil
}

// GetByID obtiene un formulario por ID. Devuelve nil si no existe.
func (r *CirculationFormRepo) GetByID(ctx context.Context, id string) (*entity.CirculationForm, error) {
	query := `SELECT ` + formColumns + ` FROM circulation_forms WHERE id = $1`
	var f entity.CirculationForm
	err := r.q.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.Phone, &f.Notes, &f.Status, &f.FullyReturned, &f.PreviousFormID,
		&f.RecordedBy, &f.RecordedAt, &f.UpdatedBy, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get circulation form: %w", err)
	}
	return &f, nil
}

// Update persiste los campos editables del formulario. Status y las
// referencias de encadenamiento no cambian en edición.
func (r *CirculationFormRepo) Update(ctx context.Context, form *entity.CirculationForm) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE circulation_forms
		SET name = $2, phone = $3, notes = $4, updated_by = $5, updated_at = $6
		WHERE id = $1`,
		form.ID, form.Name, form.Phone, form.Notes, form.UpdatedBy, form.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update circulation form: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetFullyReturned marca si un préstamo quedó completamente devuelto. Se
// escribe en ambos sentidos: registrar una devolución puede ponerlo en true y
// eliminarla lo regresa a false.
func (r *CirculationFormRepo) SetFullyReturned(ctx context.Context, id string, fullyReturned bool) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE circulation_forms SET fully_returned = $2 WHERE id = $1`,
		id, fullyReturned,
	)
	if err != nil {
		return fmt.Errorf("set fully_returned: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un formulario (las líneas se borran aparte, antes).
func (r *CirculationFormRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM circulation_forms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete circulation form: %w", err)
	}
	return nil
}

// ListWithRecorder lista formularios con la identidad de quien los registró,
// más recientes primero.
func (r *CirculationFormRepo) ListWithRecorder(ctx context.Context) ([]repository.FormWithRecorder, error) {
	query := `
		SELECT f.id, f.name, f.phone, f.notes, f.status, f.fully_returned, f.previous_form_id,
		       f.recorded_by, f.recorded_at, f.updated_by, f.updated_at,
		       u.name, u.email
		FROM circulation_forms f
		JOIN users u ON u.id = f.recorded_by
		ORDER BY f.recorded_at DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list circulation forms: %w", err)
	}
	defer rows.Close()

	var out []repository.FormWithRecorder
	for rows.Next() {
		var f repository.FormWithRecorder
		if err := rows.Scan(
			&f.ID, &f.Name, &f.Phone, &f.Notes, &f.Status, &f.FullyReturned, &f.PreviousFormID,
			&f.RecordedBy, &f.RecordedAt, &f.UpdatedBy, &f.UpdatedAt,
			&f.RecorderName, &f.RecorderEmail,
		); err != nil {
			return nil, fmt.Errorf("scan circulation form: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
