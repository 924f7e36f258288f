package dto

import "time"

// ResponsiblePartyPayload datos del responsable de la transacción.
type ResponsiblePartyPayload struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Notes          string `json:"notes"`
	Status         string `json:"status"` // BORROWING | RETURN
	Date           string `json:"date"`   // RFC3339; vacío = ahora
	PreviousFormID string `json:"previous_form_id,omitempty"`
}

// CirculationLinePayload una línea enviada en la transacción.
type CirculationLinePayload struct {
	ID             string `json:"id"` // item id
	QtyRecorded    int64  `json:"qty_recorded"`
	Notes          string `json:"notes,omitempty"`
	PreviousLineID string `json:"previous_line_id,omitempty"` // solo devoluciones
}

// SubmitCirculationRequest body para POST/PUT de formularios de circulación.
type SubmitCirculationRequest struct {
	ResponsibleParty ResponsiblePartyPayload  `json:"responsible_party"`
	Items            []CirculationLinePayload `json:"items"`
}

// SubmitCirculationResponse conteos del registro.
type SubmitCirculationResponse struct {
	FormID        string             `json:"form_id"`
	LinesRecorded int                `json:"lines_recorded"`
	Ledger        BulkResultResponse `json:"ledger"`
}

// ReconcileResponse resultado de la edición por reconciliación.
type ReconcileResponse struct {
	FormID   string             `json:"form_id"`
	Inserted int                `json:"inserted"`
	Updated  int                `json:"updated"`
	Deleted  int                `json:"deleted"`
	Ledger   BulkResultResponse `json:"ledger"`
}

// DeleteFormResponse resultado de la eliminación con reverso compensatorio.
type DeleteFormResponse struct {
	FormID       string             `json:"form_id"`
	LinesDeleted int                `json:"lines_deleted"`
	Ledger       BulkResultResponse `json:"ledger"`
}

// CirculationLineDetail línea con datos del ítem para el detalle.
type CirculationLineDetail struct {
	LineID            string  `json:"line_id"`
	ItemID            string  `json:"item_id"`
	ItemName          string  `json:"item_name"`
	ItemCode          string  `json:"item_code"`
	Unit              string  `json:"unit"`
	Notes             string  `json:"notes,omitempty"`
	QtyRecorded       int64   `json:"qty_recorded"`
	QtyNotYetReturned *int64  `json:"qty_not_yet_returned,omitempty"`
	PreviousLineID    *string `json:"previous_line_id,omitempty"`
	CurrentQuantity   int64   `json:"current_quantity"`
	BaseQuantity      int64   `json:"base_quantity"`
	// MaxRecordable tope editable en préstamos: current + qty_recorded.
	MaxRecordable *int64 `json:"max_recordable,omitempty"`
}

// CirculationFormDetail formulario con líneas y, para préstamos, el pool de
// ítems no prestados disponible para agregar.
type CirculationFormDetail struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Phone          string                  `json:"phone"`
	Notes          string                  `json:"notes,omitempty"`
	Status         string                  `json:"status"`
	FullyReturned  *bool                   `json:"fully_returned,omitempty"`
	PreviousFormID *string                 `json:"previous_form_id,omitempty"`
	RecordedAt     time.Time               `json:"recorded_at"`
	Lines          []CirculationLineDetail `json:"lines"`
	AvailableItems []ItemTreeResponse      `json:"available_items,omitempty"`
}

// CirculationFormSummary entrada del listado con identidad del registrador.
type CirculationFormSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Status         string    `json:"status"`
	FullyReturned  *bool     `json:"fully_returned,omitempty"`
	PreviousFormID *string   `json:"previous_form_id,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
	RecorderName   string    `json:"recorder_name"`
	RecorderEmail  string    `json:"recorder_email"`
}
