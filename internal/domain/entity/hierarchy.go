package entity

// HierarchyEdge relaciona un ítem padre con un ítem hijo (un nivel).
// Un ítem que aparece como child en alguna arista nunca se lista como raíz.
// Naming canónico: parent_id / child_id en persistencia.
type HierarchyEdge struct {
	ParentID string
	ChildID  string
}
