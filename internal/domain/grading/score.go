// Package grading contiene la aritmética pura de evaluación de proyectos:
// suma ponderada por aspecto y promedio entre evaluadores.
package grading

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// WeightIndex arma el índice peso-por-aspecto a partir de los aspectos hijos
// (los padres agrupan y no llevan peso).
func WeightIndex(aspects []entity.AssessmentAspect) map[string]decimal.Decimal {
	idx := make(map[string]decimal.Decimal, len(aspects))
	for _, a := range aspects {
		if a.IsParent {
			continue
		}
		idx[a.ID] = a.Weight
	}
	return idx
}

// FinalScore calcula la nota final de una planilla: Σ(nota·peso/100).
// Aspectos sin peso conocido aportan 0.
func FinalScore(entries []entity.ScoreEntry, weights map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		w, ok := weights[e.AspectID]
		if !ok {
			continue
		}
		total = total.Add(e.Score.Mul(w).Div(hundred))
	}
	return total
}

// AverageScore promedia las notas finales de todos los evaluadores; devuelve 0
// si no hay planillas.
func AverageScore(finals []decimal.Decimal) decimal.Decimal {
	if len(finals) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, f := range finals {
		sum = sum.Add(f)
	}
	return sum.Div(decimal.NewFromInt(int64(len(finals))))
}
