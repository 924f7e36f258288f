package entity

import "time"

// Estados de circulación de un formulario.
const (
	CirculationBorrowing = "BORROWING" // préstamo: consume CurrentQuantity
	CirculationReturn    = "RETURN"    // devolución: repone CurrentQuantity
)

// CirculationForm es una transacción de préstamo o devolución.
// FullyReturned solo aplica a formularios BORROWING; PreviousFormID solo a
// RETURN (referencia al préstamo que cierra).
type CirculationForm struct {
	ID             string
	Name           string // responsable del préstamo
	Phone          string
	Notes          string
	Status         string // BORROWING | RETURN
	FullyReturned  *bool
	PreviousFormID *string
	RecordedBy     string
	RecordedAt     time.Time
	UpdatedBy      *string
	UpdatedAt      *time.Time
}

// IsBorrowing indica si el formulario es de préstamo.
func (f *CirculationForm) IsBorrowing() bool { return f.Status == CirculationBorrowing }

// IsReturn indica si el formulario es de devolución.
func (f *CirculationForm) IsReturn() bool { return f.Status == CirculationReturn }
