package dto

import "github.com/shopspring/decimal"

// GroupMemberResponse integrante de grupo en respuestas.
type GroupMemberResponse struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	StudentCode string `json:"student_code,omitempty"`
}

// GroupResponse grupo de proyecto con integrantes.
type GroupResponse struct {
	ID      string                `json:"id"`
	Number  int                   `json:"number"`
	Class   string                `json:"class"`
	Year    int                   `json:"year"`
	Report  string                `json:"report,omitempty"`
	Members []GroupMemberResponse `json:"members"`
}

// AspectResponse aspecto de evaluación; los padres embeben hijos.
type AspectResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Weight   decimal.Decimal  `json:"weight"`
	Year     int              `json:"year"`
	IsParent bool             `json:"is_parent"`
	Children []AspectResponse `json:"children,omitempty"`
}

// ScoreEntryPayload nota para un aspecto hijo.
type ScoreEntryPayload struct {
	AspectID string          `json:"aspect_id"`
	Score    decimal.Decimal `json:"score"`
}

// SubmitGroupScoreRequest planilla de un evaluador para un grupo.
type SubmitGroupScoreRequest struct {
	GroupID string              `json:"group_id"`
	Year    int                 `json:"year"`
	Class   string              `json:"class"`
	Entries []ScoreEntryPayload `json:"entries"`
}

// IndividualSheetPayload planilla de un integrante dentro del envío individual.
type IndividualSheetPayload struct {
	StudentID string              `json:"student_id"`
	Entries   []ScoreEntryPayload `json:"entries"`
}

// SubmitIndividualScoreRequest planillas individuales de los integrantes.
type SubmitIndividualScoreRequest struct {
	GroupID string                   `json:"group_id"`
	Year    int                      `json:"year"`
	Class   string                   `json:"class"`
	Sheets  []IndividualSheetPayload `json:"sheets"`
}

// InsertedResponse conteo genérico de inserciones.
type InsertedResponse struct {
	InsertedCount int `json:"inserted_count"`
}

// ScoreSheetResponse planilla persistida.
type ScoreSheetResponse struct {
	ID          string              `json:"id"`
	GroupID     string              `json:"group_id"`
	StudentID   string              `json:"student_id,omitempty"`
	EvaluatorID string              `json:"evaluator_id"`
	Entries     []ScoreEntryPayload `json:"entries"`
}

// GroupRecapRow fila del consolidado de notas por grupo.
type GroupRecapRow struct {
	GroupID        string                `json:"group_id"`
	Number         int                   `json:"number"`
	Class          string                `json:"class"`
	Year           int                   `json:"year"`
	Members        []GroupMemberResponse `json:"members"`
	EvaluatorCount int                   `json:"evaluator_count"`
	FinalScore     decimal.Decimal       `json:"final_score"`
}

// IndividualRecapRow fila del consolidado de notas individuales.
type IndividualRecapRow struct {
	StudentID      string          `json:"student_id"`
	GroupID        string          `json:"group_id"`
	Class          string          `json:"class"`
	Year           int             `json:"year"`
	EvaluatorCount int             `json:"evaluator_count"`
	FinalScore     decimal.Decimal `json:"final_score"`
}
