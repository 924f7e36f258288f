package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/inventory"
)

func edges(parent string, children ...string) []entity.HierarchyEdge {
	var out []entity.HierarchyEdge
	for _, c := range children {
		out = append(out, entity.HierarchyEdge{ParentID: parent, ChildID: c})
	}
	return out
}

func TestDiffEdges_InsertaYElimina(t *testing.T) {
	current := edges("p", "a", "b")
	diff := inventory.DiffEdges("p", current, []string{"b", "c"})

	require.Len(t, diff.ToInsert, 1)
	assert.Equal(t, "c", diff.ToInsert[0].ChildID)
	require.Len(t, diff.ToDelete, 1)
	assert.Equal(t, "a", diff.ToDelete[0].ChildID)
}

// Propiedad clave: aplicar el diff y recalcular con la misma lista deseada debe
// producir cero operaciones (idempotencia del sync de jerarquía).
func TestDiffEdges_Idempotente(t *testing.T) {
	desired := []string{"a", "b", "c"}
	first := inventory.DiffEdges("p", nil, desired)
	require.Len(t, first.ToInsert, 3)

	// Estado tras aplicar el primer diff
	applied := append([]entity.HierarchyEdge{}, first.ToInsert...)

	second := inventory.DiffEdges("p", applied, desired)
	assert.True(t, second.Empty(), "la segunda pasada con la misma lista no debe generar operaciones")
}

func TestDiffEdges_ListaVaciaEliminaTodo(t *testing.T) {
	current := edges("p", "a", "b")
	diff := inventory.DiffEdges("p", current, nil)

	assert.Empty(t, diff.ToInsert)
	assert.Len(t, diff.ToDelete, 2)
}
