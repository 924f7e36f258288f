package entity

// CirculationItem es la línea de un formulario de circulación: un ítem y la
// cantidad registrada en esa transacción. Pertenece a exactamente un formulario
// y se elimina con él.
//
// En líneas de préstamo QtyNotYetReturned arranca igual a QtyRecorded y se
// decrementa a medida que devoluciones la referencian vía PreviousItemID.
type CirculationItem struct {
	ID                string
	FormID            string
	ItemID            string
	Status            string // copiado del formulario al registrar
	Notes             string
	QtyRecorded       int64
	QtyNotYetReturned *int64  // solo líneas BORROWING
	PreviousItemID    *string // solo líneas RETURN: línea de préstamo que devuelve
}

// Outstanding devuelve lo aún no devuelto de una línea de préstamo (0 si no aplica).
func (ci *CirculationItem) Outstanding() int64 {
	if ci.QtyNotYetReturned == nil {
		return 0
	}
	return *ci.QtyNotYetReturned
}
