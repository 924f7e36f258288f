package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var (
	_ repository.GroupRepository  = (*GroupRepo)(nil)
	_ repository.AspectRepository = (*AspectRepo)(nil)
	_ repository.ScoreRepository  = (*ScoreRepo)(nil)
)

// GroupRepo implementación de GroupRepository sobre PostgreSQL.
type GroupRepo struct {
	q Querier
}

// NewGroupRepository construye el adaptador de grupos. Pasar pool o tx (Querier).
func NewGroupRepository(q Querier) *GroupRepo {
	return &GroupRepo{q: q}
}

// GetByID obtiene un grupo con sus integrantes. Devuelve nil si no existe.
func (r *GroupRepo) GetByID(ctx context.Context, id string) (*repository.GroupWithMembers, error) {
	var g repository.GroupWithMembers
	err := r.q.QueryRow(ctx,
		`SELECT id, number, class, year, report FROM project_groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Number, &g.Class, &g.Year, &g.Report)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	members, err := r.membersOf(ctx, []string{g.ID})
	if err != nil {
		return nil, err
	}
	g.Members = members[g.ID]
	return &g, nil
}

// List lista grupos filtrados por años y clases (vacío = sin filtro), con
// integrantes embebidos.
func (r *GroupRepo) List(ctx context.Context, years []int, classes []string) ([]repository.GroupWithMembers, error) {
	query := `SELECT id, number, class, year, report FROM project_groups WHERE 1=1`
	var args []any
	if len(years) > 0 {
		args = append(args, years)
		query += fmt.Sprintf(` AND year = ANY($%d)`, len(args))
	}
	if len(classes) > 0 {
		args = append(args, classes)
		query += fmt.Sprintf(` AND class = ANY($%d)`, len(args))
	}
	query += ` ORDER BY year DESC, class, number`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var out []repository.GroupWithMembers
	var ids []string
	for rows.Next() {
		var g repository.GroupWithMembers
		if err := rows.Scan(&g.ID, &g.Number, &g.Class, &g.Year, &g.Report); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out = append(out, g)
		ids = append(ids, g.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	members, err := r.membersOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Members = members[out[i].ID]
	}
	return out, nil
}

func (r *GroupRepo) membersOf(ctx context.Context, groupIDs []string) (map[string][]repository.GroupMember, error) {
	query := `
		SELECT gm.group_id, u.id, u.name, COALESCE(u.student_code, '')
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ANY($1)
		ORDER BY u.name`
	rows, err := r.q.Query(ctx, query, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]repository.GroupMember)
	for rows.Next() {
		var groupID string
		var m repository.GroupMember
		if err := rows.Scan(&groupID, &m.UserID, &m.Name, &m.StudentCode); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		out[groupID] = append(out[groupID], m)
	}
	return out, rows.Err()
}

// AspectRepo implementación de AspectRepository sobre PostgreSQL.
type AspectRepo struct {
	q Querier
}

// NewAspectRepository construye el adaptador de aspectos. Pasar pool o tx (Querier).
func NewAspectRepository(q Querier) *AspectRepo {
	return &AspectRepo{q: q}
}

// ListParents devuelve los aspectos padre del tipo y años dados con sus hijos
// embebidos (misma forma padre/hijo de un nivel que la jerarquía de ítems).
func (r *AspectRepo) ListParents(ctx context.Context, kind string, years []int) ([]repository.AspectWithChildren, error) {
	query := `
		SELECT id, kind, name, weight, year, is_parent, parent_id
		FROM assessment_aspects WHERE kind = $1`
	args := []any{kind}
	if len(years) > 0 {
		args = append(args, years)
		query += fmt.Sprintf(` AND year = ANY($%d)`, len(args))
	}
	query += ` ORDER BY year DESC, name`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list aspects: %w", err)
	}
	defer rows.Close()

	var parents []repository.AspectWithChildren
	childrenByParent := make(map[string][]entity.AssessmentAspect)
	for rows.Next() {
		var a entity.AssessmentAspect
		if err := rows.Scan(&a.ID, &a.Kind, &a.Name, &a.Weight, &a.Year, &a.IsParent, &a.ParentID); err != nil {
			return nil, fmt.Errorf("scan aspect: %w", err)
		}
		if a.IsParent {
			parents = append(parents, repository.AspectWithChildren{AssessmentAspect: a})
		} else if a.ParentID != nil {
			childrenByParent[*a.ParentID] = append(childrenByParent[*a.ParentID], a)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range parents {
		parents[i].Children = childrenByParent[parents[i].ID]
	}
	return parents, nil
}

// ScoreRepo implementación de ScoreRepository sobre PostgreSQL. Las entradas
// de cada planilla se persisten como JSONB.
type ScoreRepo struct {
	q Querier
}

// NewScoreRepository construye el adaptador de planillas. Pasar pool o tx (Querier).
func NewScoreRepository(q Querier) *ScoreRepo {
	return &ScoreRepo{q: q}
}

// InsertGroupScores inserta planillas grupales.
func (r *ScoreRepo) InsertGroupScores(ctx context.Context, scores []*entity.GroupScore) error {
	query := `
		INSERT INTO group_scores (id, group_id, evaluator_id, year, class, entries, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, sc := range scores {
		entries, err := json.Marshal(sc.Entries)
		if err != nil {
			return fmt.Errorf("marshal entries: %w", err)
		}
		_, err = r.q.Exec(ctx, query, sc.ID, sc.GroupID, sc.EvaluatorID, sc.Year, sc.Class, entries, sc.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert group score: %w", err)
		}
	}
	return nil
}

// GetGroupScore obtiene la planilla de un evaluador para un grupo. Devuelve
// nil si no existe.
func (r *ScoreRepo) GetGroupScore(ctx context.Context, groupID, evaluatorID string) (*entity.GroupScore, error) {
	var sc entity.GroupScore
	var entries []byte
	err := r.q.QueryRow(ctx, `
		SELECT id, group_id, evaluator_id, year, class, entries, created_at
		FROM group_scores WHERE group_id = $1 AND evaluator_id = $2`,
		groupID, evaluatorID,
	).Scan(&sc.ID, &sc.GroupID, &sc.EvaluatorID, &sc.Year, &sc.Class, &entries, &sc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get group score: %w", err)
	}
	if err := json.Unmarshal(entries, &sc.Entries); err != nil {
		return nil, fmt.Errorf("unmarshal entries: %w", err)
	}
	return &sc, nil
}

// ListGroupScores lista todas las planillas de un grupo.
func (r *ScoreRepo) ListGroupScores(ctx context.Context, groupID string) ([]entity.GroupScore, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, group_id, evaluator_id, year, class, entries, created_at
		FROM group_scores WHERE group_id = $1 ORDER BY created_at`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list group scores: %w", err)
	}
	defer rows.Close()

	var out []entity.GroupScore
	for rows.Next() {
		var sc entity.GroupScore
		var entries []byte
		if err := rows.Scan(&sc.ID, &sc.GroupID, &sc.EvaluatorID, &sc.Year, &sc.Class, &entries, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group score: %w", err)
		}
		if err := json.Unmarshal(entries, &sc.Entries); err != nil {
			return nil, fmt.Errorf("unmarshal entries: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// InsertIndividualScores inserta planillas individuales.
func (r *ScoreRepo) InsertIndividualScores(ctx context.Context, scores []*entity.IndividualScore) error {
	query := `
		INSERT INTO individual_scores (id, student_id, group_id, evaluator_id, year, class, entries, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, sc := range scores {
		entries, err := json.Marshal(sc.Entries)
		if err != nil {
			return fmt.Errorf("marshal entries: %w", err)
		}
		_, err = r.q.Exec(ctx, query, sc.ID, sc.StudentID, sc.GroupID, sc.EvaluatorID, sc.Year, sc.Class, entries, sc.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert individual score: %w", err)
		}
	}
	return nil
}

// GetIndividualScore obtiene la planilla de un evaluador para un estudiante.
// Devuelve nil si no existe.
func (r *ScoreRepo) GetIndividualScore(ctx context.Context, studentID, evaluatorID string) (*entity.IndividualScore, error) {
	var sc entity.IndividualScore
	var entries []byte
	err := r.q.QueryRow(ctx, `
		SELECT id, student_id, group_id, evaluator_id, year, class, entries, created_at
		FROM individual_scores WHERE student_id = $1 AND evaluator_id = $2`,
		studentID, evaluatorID,
	).Scan(&sc.ID, &sc.StudentID, &sc.GroupID, &sc.EvaluatorID, &sc.Year, &sc.Class, &entries, &sc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get individual score: %w", err)
	}
	if err := json.Unmarshal(entries, &sc.Entries); err != nil {
		return nil, fmt.Errorf("unmarshal entries: %w", err)
	}
	return &sc, nil
}

// ListIndividualScoresByGroup lista las planillas individuales de un grupo.
func (r *ScoreRepo) ListIndividualScoresByGroup(ctx context.Context, groupID string) ([]entity.IndividualScore, error) {
	return r.listIndividual(ctx, `
		SELECT id, student_id, group_id, evaluator_id, year, class, entries, created_at
		FROM individual_scores WHERE group_id = $1 ORDER BY created_at`,
		groupID,
	)
}

// ListIndividualScores lista las planillas individuales de una clase y año.
func (r *ScoreRepo) ListIndividualScores(ctx context.Context, year int, class string) ([]entity.IndividualScore, error) {
	return r.listIndividual(ctx, `
		SELECT id, student_id, group_id, evaluator_id, year, class, entries, created_at
		FROM individual_scores WHERE year = $1 AND class = $2 ORDER BY student_id, created_at`,
		year, class,
	)
}

func (r *ScoreRepo) listIndividual(ctx context.Context, query string, args ...any) ([]entity.IndividualScore, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list individual scores: %w", err)
	}
	defer rows.Close()

	var out []entity.IndividualScore
	for rows.Next() {
		var sc entity.IndividualScore
		var entries []byte
		if err := rows.Scan(&sc.ID, &sc.StudentID, &sc.GroupID, &sc.EvaluatorID, &sc.Year, &sc.Class, &entries, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan individual score: %w", err)
		}
		if err := json.Unmarshal(entries, &sc.Entries); err != nil {
			return nil, fmt.Errorf("unmarshal entries: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
