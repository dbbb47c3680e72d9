package model

// Grade represents a hazard tier, ordered worst (F) to best (A+).
type Grade string

const (
	GradeF     Grade = "F"
	GradeD     Grade = "D"
	GradeC     Grade = "C"
	GradeB     Grade = "B"
	GradeA     Grade = "A"
	GradeAPlus Grade = "A+"
)

// gradeRank orders grades worst-first for sorting and dominance checks.
var gradeRank = map[Grade]int{
	GradeF:     0,
	GradeD:     1,
	GradeC:     2,
	GradeB:     3,
	GradeA:     4,
	GradeAPlus: 5,
}

// Rank returns the sort rank of a grade, worst tier first. Unknown grades
// rank alongside C.
func (g Grade) Rank() int {
	if r, ok := gradeRank[g]; ok {
		return r
	}
	return gradeRank[GradeC]
}

// WorseThan reports whether g is a worse tier than other.
func (g Grade) WorseThan(other Grade) bool {
	return g.Rank() < other.Rank()
}

// Valid reports whether g is one of the six known tiers.
func (g Grade) Valid() bool {
	_, ok := gradeRank[g]
	return ok
}

// GradeFromScore maps an overall 0-100 score to its letter grade.
func GradeFromScore(score int) Grade {
	switch {
	case score >= 95:
		return GradeAPlus
	case score >= 85:
		return GradeA
	case score >= 70:
		return GradeB
	case score >= 50:
		return GradeC
	case score >= 30:
		return GradeD
	default:
		return GradeF
	}
}
