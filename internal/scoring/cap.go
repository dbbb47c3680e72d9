package scoring

import (
	"fmt"
	"math"

	"github.com/truelabel/truelabel/internal/model"
)

// tierCeilings gives the overall-score ceiling imposed by the worst
// ingredient tier present. A product containing an F-grade ingredient can
// never score above 29, and so on down the table. The cap applies uniformly
// to every sub-F tier, not only F.
var tierCeilings = map[model.Grade]int{
	model.GradeF: 29,
	model.GradeD: 49,
	model.GradeC: 69,
}

// ScoreCapPolicy enforces worst-tier dominance: the final clamp applied to
// the blended overall score before the letter grade is derived.
type ScoreCapPolicy struct{}

// CapResult is the clamped outcome.
type CapResult struct {
	Score  int
	Grade  model.Grade
	Capped bool
	Alert  string
}

// Apply clamps blended to the ceiling of the worst tier present in grades
// and derives the letter grade from the clamped score.
func (ScoreCapPolicy) Apply(blended float64, grades []model.IngredientGrade) CapResult {
	score := clamp(int(math.Round(blended)))

	worst, ok := worstTier(grades)
	if ok {
		if ceiling, capped := tierCeilings[worst]; capped && score > ceiling {
			return CapResult{
				Score:  ceiling,
				Grade:  model.GradeFromScore(ceiling),
				Capped: true,
				Alert:  fmt.Sprintf("SCORE CAPPED: product cannot score above %s due to %s-grade ingredients", model.GradeFromScore(ceiling), worst),
			}
		}
	}

	return CapResult{Score: score, Grade: model.GradeFromScore(score)}
}

// Ceiling returns the cap for the worst tier present, or 100 when uncapped.
func (ScoreCapPolicy) Ceiling(grades []model.IngredientGrade) int {
	if worst, ok := worstTier(grades); ok {
		if c, capped := tierCeilings[worst]; capped {
			return c
		}
	}
	return 100
}

func worstTier(grades []model.IngredientGrade) (model.Grade, bool) {
	if len(grades) == 0 {
		return "", false
	}
	worst := grades[0].Grade
	for _, g := range grades[1:] {
		if g.Grade.WorseThan(worst) {
			worst = g.Grade
		}
	}
	return worst, true
}
