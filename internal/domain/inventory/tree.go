// Package inventory contiene la lógica pura del motor de inventario y
// circulación: transformación árbol↔aristas, diff de jerarquía y
// reconciliación de líneas. Sin I/O; todo es determinista y testeable.
package inventory

import "github.com/jhoicas/labstock-api/internal/domain/entity"

// ItemTree es un ítem con sus hijos embebidos (un solo nivel, no recursivo).
type ItemTree struct {
	entity.Item
	Children []entity.Item
}

// Flatten aplana una lista de árboles de ítems a nodos planos más la lista de
// aristas padre→hijo. Inversa de Assemble.
func Flatten(trees []ItemTree) ([]entity.Item, []entity.HierarchyEdge) {
	var nodes []entity.Item
	var edges []entity.HierarchyEdge
	for _, t := range trees {
		nodes = append(nodes, t.Item)
		for _, child := range t.Children {
			nodes = append(nodes, child)
			edges = append(edges, entity.HierarchyEdge{ParentID: t.Item.ID, ChildID: child.ID})
		}
	}
	return nodes, edges
}

// Assemble reconstruye los árboles: un nodo es raíz si ninguna arista lo nombra
// como child; los hijos se embeben un nivel. Nodos referenciados por aristas
// pero ausentes de nodes se ignoran. Preserva el orden de nodes para las raíces.
func Assemble(nodes []entity.Item, edges []entity.HierarchyEdge) []ItemTree {
	byID := make(map[string]entity.Item, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	isChild := make(map[string]bool, len(edges))
	childrenOf := make(map[string][]entity.Item)
	for _, e := range edges {
		isChild[e.ChildID] = true
		if child, ok := byID[e.ChildID]; ok {
			childrenOf[e.ParentID] = append(childrenOf[e.ParentID], child)
		}
	}

	var trees []ItemTree
	for _, n := range nodes {
		if isChild[n.ID] {
			continue
		}
		trees = append(trees, ItemTree{Item: n, Children: childrenOf[n.ID]})
	}
	return trees
}
