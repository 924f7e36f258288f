package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/inventory"
)

func borrowLine(id, itemID string, qty int64) entity.CirculationItem {
	notReturned := qty
	return entity.CirculationItem{
		ID:                id,
		FormID:            "f1",
		ItemID:            itemID,
		Status:            entity.CirculationBorrowing,
		QtyRecorded:       qty,
		QtyNotYetReturned: &notReturned,
	}
}

func TestDiffLines_TresConjuntosDisjuntos(t *testing.T) {
	current := []entity.CirculationItem{
		borrowLine("l1", "item-a", 4),
		borrowLine("l2", "item-b", 2),
	}
	desired := []inventory.LineInput{
		{ItemID: "item-a", QtyRecorded: 2}, // cambia cantidad
		{ItemID: "item-c", QtyRecorded: 5}, // nuevo
		// item-b removido
	}

	diff := inventory.DiffLines(current, desired)

	require.Len(t, diff.ToInsert, 1)
	assert.Equal(t, "item-c", diff.ToInsert[0].ItemID)
	require.Len(t, diff.ToUpdate, 1)
	assert.Equal(t, "item-a", diff.ToUpdate[0].Current.ItemID)
	assert.Equal(t, int64(-2), diff.ToUpdate[0].QtyChange())
	require.Len(t, diff.ToDelete, 1)
	assert.Equal(t, "item-b", diff.ToDelete[0].ItemID)
}

func TestDiffLines_SinCambiosNoGeneraOperaciones(t *testing.T) {
	current := []entity.CirculationItem{borrowLine("l1", "item-a", 4)}
	desired := []inventory.LineInput{{ItemID: "item-a", QtyRecorded: 4}}

	diff := inventory.DiffLines(current, desired)
	assert.True(t, diff.Empty(), "mismo estado deseado no debe producir operaciones (idempotencia)")
}

// Convención de signos del préstamo: insertar consume, eliminar repone, editar
// aplica solo la diferencia old-new.
func TestLedgerDeltas_Prestamo(t *testing.T) {
	current := []entity.CirculationItem{
		borrowLine("l1", "item-a", 4),
		borrowLine("l2", "item-b", 2),
	}
	desired := []inventory.LineInput{
		{ItemID: "item-a", QtyRecorded: 2},
		{ItemID: "item-c", QtyRecorded: 5},
	}

	deltas := inventory.DiffLines(current, desired).LedgerDeltas(entity.CirculationBorrowing)

	assert.Equal(t, int64(2), deltas["item-a"], "reducir 4→2 devuelve 2 al pool, no reaplica el valor nuevo")
	assert.Equal(t, int64(-5), deltas["item-c"], "línea nueva en préstamo consume")
	assert.Equal(t, int64(2), deltas["item-b"], "línea removida repone lo prestado")
}

// En devolución los signos se invierten.
func TestLedgerDeltas_Devolucion(t *testing.T) {
	current := []entity.CirculationItem{{ID: "l1", ItemID: "item-a", Status: entity.CirculationReturn, QtyRecorded: 3}}
	desired := []inventory.LineInput{
		{ItemID: "item-a", QtyRecorded: 1},
		{ItemID: "item-b", QtyRecorded: 2},
	}

	deltas := inventory.DiffLines(current, desired).LedgerDeltas(entity.CirculationReturn)

	assert.Equal(t, int64(-2), deltas["item-a"], "reducir lo devuelto 3→1 retira 2 del pool")
	assert.Equal(t, int64(2), deltas["item-b"], "línea nueva en devolución repone")
}

func TestLedgerDeltas_OmiteDeltasCero(t *testing.T) {
	current := []entity.CirculationItem{borrowLine("l1", "item-a", 4)}
	// Solo cambian las notas: el diff actualiza la línea pero el delta neto es 0.
	desired := []inventory.LineInput{{ItemID: "item-a", QtyRecorded: 4, Notes: "cable pelado"}}

	diff := inventory.DiffLines(current, desired)
	require.Len(t, diff.ToUpdate, 1)
	assert.Empty(t, diff.LedgerDeltas(entity.CirculationBorrowing))
}

func TestApplySign(t *testing.T) {
	assert.Equal(t, int64(-3), inventory.ApplySign(entity.CirculationBorrowing, 3))
	assert.Equal(t, int64(3), inventory.ApplySign(entity.CirculationReturn, 3))
}
