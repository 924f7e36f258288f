package grading_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/grading"
)

func aspect(id string, weight int64, isParent bool) entity.AssessmentAspect {
	return entity.AssessmentAspect{ID: id, Weight: decimal.NewFromInt(weight), IsParent: isParent}
}

func TestWeightIndex_ExcluyePadres(t *testing.T) {
	idx := grading.WeightIndex([]entity.AssessmentAspect{
		aspect("padre", 0, true),
		aspect("hijo-1", 60, false),
		aspect("hijo-2", 40, false),
	})

	assert.Len(t, idx, 2)
	_, hasParent := idx["padre"]
	assert.False(t, hasParent)
}

func TestFinalScore_SumaPonderada(t *testing.T) {
	weights := grading.WeightIndex([]entity.AssessmentAspect{
		aspect("a", 60, false),
		aspect("b", 40, false),
	})
	entries := []entity.ScoreEntry{
		{AspectID: "a", Score: decimal.NewFromInt(80)}, // 80*60/100 = 48
		{AspectID: "b", Score: decimal.NewFromInt(90)}, // 90*40/100 = 36
	}

	final := grading.FinalScore(entries, weights)
	assert.True(t, final.Equal(decimal.NewFromInt(84)), "esperaba 84, obtuvo %s", final)
}

func TestFinalScore_AspectoDesconocidoAportaCero(t *testing.T) {
	weights := grading.WeightIndex([]entity.AssessmentAspect{aspect("a", 100, false)})
	entries := []entity.ScoreEntry{
		{AspectID: "a", Score: decimal.NewFromInt(70)},
		{AspectID: "desconocido", Score: decimal.NewFromInt(100)},
	}

	final := grading.FinalScore(entries, weights)
	assert.True(t, final.Equal(decimal.NewFromInt(70)))
}

func TestAverageScore(t *testing.T) {
	assert.True(t, grading.AverageScore(nil).IsZero(), "sin planillas el promedio es 0")

	avg := grading.AverageScore([]decimal.Decimal{
		decimal.NewFromInt(80),
		decimal.NewFromInt(90),
	})
	assert.True(t, avg.Equal(decimal.NewFromInt(85)))
}
