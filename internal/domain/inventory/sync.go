package inventory

import "github.com/jhoicas/labstock-api/internal/domain/entity"

// EdgeDiff es el resultado de comparar las aristas persistidas de un padre
// contra la lista de hijos deseada.
type EdgeDiff struct {
	ToInsert []entity.HierarchyEdge
	ToDelete []entity.HierarchyEdge
}

// Empty indica que no hay operaciones pendientes.
func (d EdgeDiff) Empty() bool { return len(d.ToInsert) == 0 && len(d.ToDelete) == 0 }

// DiffEdges calcula la diferencia simétrica entre las aristas actuales de
// parentID y el conjunto deseado de hijos. Aplicar el resultado dos veces con
// la misma lista deseada produce cero operaciones la segunda vez.
func DiffEdges(parentID string, current []entity.HierarchyEdge, desiredChildIDs []string) EdgeDiff {
	have := make(map[string]bool, len(current))
	for _, e := range current {
		have[e.ChildID] = true
	}
	want := make(map[string]bool, len(desiredChildIDs))
	for _, id := range desiredChildIDs {
		want[id] = true
	}

	var diff EdgeDiff
	for _, id := range desiredChildIDs {
		if !have[id] {
			diff.ToInsert = append(diff.ToInsert, entity.HierarchyEdge{ParentID: parentID, ChildID: id})
		}
	}
	for _, e := range current {
		if !want[e.ChildID] {
			diff.ToDelete = append(diff.ToDelete, e)
		}
	}
	return diff
}
