package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de aspecto de evaluación.
const (
	AspectKindGroup      = "group"
	AspectKindIndividual = "individual"
)

// ProjectGroup es un grupo de proyecto final (por clase y año).
type ProjectGroup struct {
	ID     string
	Number int
	Class  string
	Year   int
	Report string // URL o referencia del informe entregado
}

// AssessmentAspect es un criterio de evaluación. Los padres agrupan; solo los
// hijos llevan peso y reciben nota (misma forma padre/hijo de un nivel que la
// jerarquía de ítems).
type AssessmentAspect struct {
	ID       string
	Kind     string // group | individual
	Name     string
	Weight   decimal.Decimal // porcentaje, solo hijos
	Year     int
	IsParent bool
	ParentID *string
}

// ScoreEntry es la nota de un evaluador para un aspecto hijo.
type ScoreEntry struct {
	AspectID string          `json:"aspect_id"`
	Score    decimal.Decimal `json:"score"`
}

// GroupScore es la planilla de un evaluador para un grupo.
type GroupScore struct {
	ID          string
	GroupID     string
	EvaluatorID string
	Year        int
	Class       string
	Entries     []ScoreEntry // persistido como JSONB
	CreatedAt   time.Time
}

// IndividualScore es la planilla de un evaluador para un estudiante del grupo.
type IndividualScore struct {
	ID          string
	StudentID   string
	GroupID     string
	EvaluatorID string
	Year        int
	Class       string
	Entries     []ScoreEntry
	CreatedAt   time.Time
}
