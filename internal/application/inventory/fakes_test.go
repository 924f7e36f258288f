package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

// fakeStore es el almacén en memoria compartido por los repos falsos de estos
// tests. Mantiene orden de inserción para respuestas deterministas.
type fakeStore struct {
	items     map[string]*entity.Item
	itemOrder []string
	edges     []entity.HierarchyEdge
	forms     map[string]*entity.CirculationForm
	formOrder []string
	lines     []*entity.CirculationItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items: map[string]*entity.Item{},
		forms: map[string]*entity.CirculationForm{},
	}
}

func (s *fakeStore) seedItem(id string, base, current int64) {
	s.items[id] = &entity.Item{ID: id, Name: "item " + id, BaseQuantity: base, CurrentQuantity: current}
	s.itemOrder = append(s.itemOrder, id)
}

func (s *fakeStore) linesOf(formID string) []*entity.CirculationItem {
	var out []*entity.CirculationItem
	for _, line := range s.lines {
		if line.FormID == formID {
			out = append(out, line)
		}
	}
	return out
}

type fakeItemRepo struct{ s *fakeStore }

var _ repository.ItemRepository = (*fakeItemRepo)(nil)

func (r *fakeItemRepo) CreateMany(_ context.Context, items []*entity.Item) error {
	for _, it := range items {
		cp := *it
		r.s.items[it.ID] = &cp
		r.s.itemOrder = append(r.s.itemOrder, it.ID)
	}
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok || it.DeletedAt != nil {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *entity.Item, baseDelta int64) error {
	it, ok := r.s.items[item.ID]
	if !ok {
		return fmt.Errorf("item %s no existe", item.ID)
	}
	it.Name = item.Name
	it.Code = item.Code
	it.Condition = item.Condition
	it.Unit = item.Unit
	it.BaseQuantity = item.BaseQuantity
	it.CurrentQuantity += baseDelta
	it.UpdatedBy = item.UpdatedBy
	it.UpdatedAt = item.UpdatedAt
	return nil
}

func (r *fakeItemRepo) SoftDeleteMany(_ context.Context, ids []string, actorID string, at time.Time) (int64, error) {
	var count int64
	for _, id := range ids {
		it, ok := r.s.items[id]
		if !ok || it.DeletedAt != nil {
			continue
		}
		deletedAt := at
		it.DeletedBy = &actorID
		it.DeletedAt = &deletedAt
		count++
	}
	return count, nil
}

func (r *fakeItemRepo) isChild(id string) bool {
	for _, e := range r.s.edges {
		if e.ChildID == id {
			return true
		}
	}
	return false
}

func (r *fakeItemRepo) matches(it *entity.Item, filter repository.ItemFilter) bool {
	switch filter {
	case repository.FilterBorrowed:
		return it.CurrentQuantity < it.BaseQuantity
	case repository.FilterNotBorrowed:
		return it.CurrentQuantity > 0
	default:
		return true
	}
}

func (r *fakeItemRepo) flatten(rootIDs []string) ([]entity.Item, []entity.HierarchyEdge) {
	roots := map[string]bool{}
	var nodes []entity.Item
	for _, id := range rootIDs {
		roots[id] = true
		nodes = append(nodes, *r.s.items[id])
	}
	var edges []entity.HierarchyEdge
	for _, e := range r.s.edges {
		if !roots[e.ParentID] {
			continue
		}
		if child, ok := r.s.items[e.ChildID]; ok && child.DeletedAt == nil {
			nodes = append(nodes, *child)
			edges = append(edges, e)
		}
	}
	return nodes, edges
}

func (r *fakeItemRepo) ListActiveFlat(_ context.Context, filter repository.ItemFilter) ([]entity.Item, []entity.HierarchyEdge, error) {
	var rootIDs []string
	for _, id := range r.s.itemOrder {
		it := r.s.items[id]
		if it.DeletedAt != nil || r.isChild(id) || !r.matches(it, filter) {
			continue
		}
		rootIDs = append(rootIDs, id)
	}
	nodes, edges := r.flatten(rootIDs)
	return nodes, edges, nil
}

func (r *fakeItemRepo) ListFlatByIDs(_ context.Context, ids []string) ([]entity.Item, []entity.HierarchyEdge, error) {
	var rootIDs []string
	for _, id := range ids {
		if it, ok := r.s.items[id]; ok && it.DeletedAt == nil {
			rootIDs = append(rootIDs, id)
		}
	}
	nodes, edges := r.flatten(rootIDs)
	return nodes, edges, nil
}

func (r *fakeItemRepo) ListNameSuggestions(_ context.Context) ([]entity.Item, error) {
	seen := map[string]bool{}
	var out []entity.Item
	for _, id := range r.s.itemOrder {
		it := r.s.items[id]
		if it.DeletedAt != nil || seen[it.Name] {
			continue
		}
		seen[it.Name] = true
		out = append(out, *it)
	}
	return out, nil
}

func (r *fakeItemRepo) AdjustQuantity(_ context.Context, itemID string, delta int64, _ string) error {
	it, ok := r.s.items[itemID]
	if !ok {
		return fmt.Errorf("item %s no existe", itemID)
	}
	it.CurrentQuantity += delta
	return nil
}

func (r *fakeItemRepo) AdjustQuantities(ctx context.Context, deltas []repository.QuantityDelta, actorID string) (repository.BulkResult, error) {
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

type fakeHierarchyRepo struct{ s *fakeStore }

var _ repository.HierarchyRepository = (*fakeHierarchyRepo)(nil)

func (r *fakeHierarchyRepo) ListByParent(_ context.Context, parentID string) ([]entity.HierarchyEdge, error) {
	var out []entity.HierarchyEdge
	for _, e := range r.s.edges {
		if e.ParentID == parentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeHierarchyRepo) InsertMany(_ context.Context, edges []entity.HierarchyEdge) error {
	r.s.edges = append(r.s.edges, edges...)
	return nil
}

func (r *fakeHierarchyRepo) DeleteMany(_ context.Context, edges []entity.HierarchyEdge) error {
	gone := map[entity.HierarchyEdge]bool{}
	for _, e := range edges {
		gone[e] = true
	}
	kept := r.s.edges[:0]
	for _, e := range r.s.edges {
		if !gone[e] {
			kept = append(kept, e)
		}
	}
	r.s.edges = kept
	return nil
}

type fakeFormRepo struct{ s *fakeStore }

var _ repository.CirculationFormRepository = (*fakeFormRepo)(nil)

func (r *fakeFormRepo) Create(_ context.Context, form *entity.CirculationForm) error {
	cp := *form
	r.s.forms[form.ID] = &cp
	r.s.formOrder = append(r.s.formOrder, form.ID)
	return nil
}

func (r *fakeFormRepo) GetByID(_ context.Context, id string) (*entity.CirculationForm, error) {
	f, ok := r.s.forms[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFormRepo) Update(_ context.Context, form *entity.CirculationForm) error {
	f, ok := r.s.forms[form.ID]
	if !ok {
		return fmt.Errorf("formulario %s no existe", form.ID)
	}
	f.Name = form.Name
	f.Phone = form.Phone
	f.Notes = form.Notes
	f.UpdatedBy = form.UpdatedBy
	f.UpdatedAt = form.UpdatedAt
	return nil
}

func (r *fakeFormRepo) SetFullyReturned(_ context.Context, id string, fullyReturned bool) error {
	f, ok := r.s.forms[id]
	if !ok {
		return fmt.Errorf("formulario %s no existe", id)
	}
	f.FullyReturned = &fullyReturned
	return nil
}

func (r *fakeFormRepo) Delete(_ context.Context, id string) error {
	delete(r.s.forms, id)
	kept := r.s.formOrder[:0]
	for _, fid := range r.s.formOrder {
		if fid != id {
			kept = append(kept, fid)
		}
	}
	r.s.formOrder = kept
	return nil
}

func (r *fakeFormRepo) ListWithRecorder(_ context.Context) ([]repository.FormWithRecorder, error) {
	var out []repository.FormWithRecorder
	for i := len(r.s.formOrder) - 1; i >= 0; i-- {
		f := r.s.forms[r.s.formOrder[i]]
		out = append(out, repository.FormWithRecorder{
			CirculationForm: *f,
			RecorderName:    "Laborante",
			RecorderEmail:   "laborante@lab.test",
		})
	}
	return out, nil
}

type fakeLineRepo struct{ s *fakeStore }

var _ repository.CirculationItemRepository = (*fakeLineRepo)(nil)

func (r *fakeLineRepo) CreateMany(_ context.Context, lines []*entity.CirculationItem) error {
	for _, line := range lines {
		cp := *line
		r.s.lines = append(r.s.lines, &cp)
	}
	return nil
}

func (r *fakeLineRepo) ListByForm(_ context.Context, formID string) ([]entity.CirculationItem, error) {
	var out []entity.CirculationItem
	for _, line := range r.s.linesOf(formID) {
		out = append(out, *line)
	}
	return out, nil
}

func (r *fakeLineRepo) ListDetailByForm(_ context.Context, formID string) ([]repository.LineDetail, error) {
	var out []repository.LineDetail
	for _, line := range r.s.linesOf(formID) {
		d := repository.LineDetail{CirculationItem: *line}
		if it, ok := r.s.items[line.ItemID]; ok {
			d.ItemName = it.Name
			d.ItemCode = it.Code
			d.ItemUnit = it.Unit
			d.ItemBaseQuantity = it.BaseQuantity
			d.ItemCurrentQuantity = it.CurrentQuantity
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeLineRepo) Update(_ context.Context, line *entity.CirculationItem) error {
	for _, l := range r.s.lines {
		if l.ID == line.ID {
			l.Notes = line.Notes
			l.QtyRecorded = line.QtyRecorded
			l.QtyNotYetReturned = line.QtyNotYetReturned
			return nil
		}
	}
	return fmt.Errorf("línea %s no existe", line.ID)
}

func (r *fakeLineRepo) DeleteMany(_ context.Context, ids []string) error {
	gone := map[string]bool{}
	for _, id := range ids {
		gone[id] = true
	}
	kept := r.s.lines[:0]
	for _, l := range r.s.lines {
		if !gone[l.ID] {
			kept = append(kept, l)
		}
	}
	r.s.lines = kept
	return nil
}

func (r *fakeLineRepo) DeleteByForm(_ context.Context, formID string) error {
	kept := r.s.lines[:0]
	for _, l := range r.s.lines {
		if l.FormID != formID {
			kept = append(kept, l)
		}
	}
	r.s.lines = kept
	return nil
}

func (r *fakeLineRepo) AdjustNotReturned(_ context.Context, deltas []repository.QuantityDelta) (repository.BulkResult, error) {
	var res repository.BulkResult
	for _, d := range deltas {
		applied := false
		for _, l := range r.s.lines {
			if l.ID == d.ID && l.QtyNotYetReturned != nil {
				shifted := *l.QtyNotYetReturned + d.Delta
				l.QtyNotYetReturned = &shifted
				applied = true
				break
			}
		}
		if applied {
			res.Applied++
		} else {
			res.Failed++
			res.FailedIDs = append(res.FailedIDs, d.ID)
		}
	}
	return res, nil
}
