package inventory

import "github.com/jhoicas/labstock-api/internal/domain/entity"

// LineInput es una línea deseada al editar un formulario de circulación.
type LineInput struct {
	ItemID         string
	QtyRecorded    int64
	Notes          string
	PreviousItemID *string
}

// LineUpdate empareja la línea persistida con su estado deseado.
type LineUpdate struct {
	Current entity.CirculationItem
	Desired LineInput
}

// QtyChange devuelve new - old para la línea.
func (u LineUpdate) QtyChange() int64 { return u.Desired.QtyRecorded - u.Current.QtyRecorded }

// LineDiff son los tres conjuntos disjuntos de la reconciliación de líneas,
// llaveados por item id.
type LineDiff struct {
	ToInsert []LineInput
	ToUpdate []LineUpdate
	ToDelete []entity.CirculationItem
}

// Empty indica que no hay operaciones pendientes.
func (d LineDiff) Empty() bool {
	return len(d.ToInsert) == 0 && len(d.ToUpdate) == 0 && len(d.ToDelete) == 0
}

// DiffLines compara las líneas persistidas de un formulario contra las deseadas
// (llave: item id):
//   - solo en deseadas  → insertar
//   - en ambas con QtyRecorded o Notes distintos → actualizar
//   - solo en persistidas → eliminar
//
// Los deltas de ledger se derivan de las diferencias observadas (ver
// LedgerDeltas), nunca del valor completo, así que re-ejecutar tras un fallo
// parcial es seguro.
func DiffLines(current []entity.CirculationItem, desired []LineInput) LineDiff {
	persisted := make(map[string]entity.CirculationItem, len(current))
	for _, line := range current {
		persisted[line.ItemID] = line
	}
	wanted := make(map[string]bool, len(desired))

	var diff LineDiff
	for _, in := range desired {
		wanted[in.ItemID] = true
		line, ok := persisted[in.ItemID]
		if !ok {
			diff.ToInsert = append(diff.ToInsert, in)
			continue
		}
		if line.QtyRecorded != in.QtyRecorded || line.Notes != in.Notes {
			diff.ToUpdate = append(diff.ToUpdate, LineUpdate{Current: line, Desired: in})
		}
	}
	for _, line := range current {
		if !wanted[line.ItemID] {
			diff.ToDelete = append(diff.ToDelete, line)
		}
	}
	return diff
}

// LedgerDeltas calcula el delta neto de CurrentQuantity por ítem para un diff,
// con el signo derivado del estado del formulario:
//
//	BORROWING: insertar → -qty, actualizar → old-new, eliminar → +qty
//	RETURN:    insertar → +qty, actualizar → new-old, eliminar → -qty
//
// Ediciones aplican solo la diferencia, nunca se reaplica el valor completo.
func (d LineDiff) LedgerDeltas(status string) map[string]int64 {
	sign := int64(-1)
	if status == entity.CirculationReturn {
		sign = 1
	}

	deltas := make(map[string]int64)
	for _, in := range d.ToInsert {
		deltas[in.ItemID] += sign * in.QtyRecorded
	}
	for _, u := range d.ToUpdate {
		deltas[u.Current.ItemID] += sign * u.QtyChange()
	}
	for _, line := range d.ToDelete {
		deltas[line.ItemID] -= sign * line.QtyRecorded
	}
	for id, delta := range deltas {
		if delta == 0 {
			delete(deltas, id)
		}
	}
	return deltas
}

// ApplySign aplica la convención de signos del ledger a una cantidad
// registrada: préstamo consume (negativo), devolución repone (positivo).
func ApplySign(status string, qty int64) int64 {
	if status == entity.CirculationBorrowing {
		return -qty
	}
	return qty
}
