package domain

type Outcome byte

const (
	OutcomeHome Outcome = 'H'
	OutcomeAway Outcome = 'A'
	OutcomeDraw Outcome = 'D'
)

// Points awarded before any joker doubling.
const (
	PointsExact   = 3
	PointsOutcome = 1
)

// ScoreLine is a pair of goal counts; either side may be nil while the score
// is unknown.
type ScoreLine struct {
	Home *int
	Away *int
}

func (l ScoreLine) Complete() bool {
	return l.Home != nil && l.Away != nil
}

// Valid reports whether the line is complete with non-negative goal counts.
// A complete but invalid line is a data-integrity anomaly; it scores zero
// rather than failing (callers log it).
func (l ScoreLine) Valid() bool {
	return l.Complete() && *l.Home >= 0 && *l.Away >= 0
}

// Outcome classifies the line as home win, away win or draw. Only meaningful
// for a complete line.
func (l ScoreLine) Outcome() Outcome {
	switch {
	case *l.Home > *l.Away:
		return OutcomeHome
	case *l.Home < *l.Away:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// CalculatePoints converts one prediction against one final result into
// points: 3 for the exact score, 1 for the right outcome, 0 otherwise. A
// joker doubles a positive base; it never turns a miss into points. Any
// missing or negative goal value scores 0. Pure and deterministic.
func CalculatePoints(predicted, actual ScoreLine, joker bool) int {
	if !predicted.Valid() || !actual.Valid() {
		return 0
	}

	var points int
	switch {
	case *predicted.Home == *actual.Home && *predicted.Away == *actual.Away:
		points = PointsExact
	case predicted.Outcome() == actual.Outcome():
		points = PointsOutcome
	}

	if joker && points > 0 {
		points *= 2
	}

	return points
}
