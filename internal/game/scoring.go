package game

import (
	"fmt"
	"sort"
)

// Outcome is the result of adjudicating one match.
type Outcome struct {
	LeftWon    bool
	LeftScore  int
	RightScore int
}

// Swap returns the outcome seen from the other side of the table.
// A points tie stays a loss for the new left side.
func (o Outcome) Swap() Outcome {
	return Outcome{
		LeftWon:    o.RightScore > o.LeftScore,
		LeftScore:  o.RightScore,
		RightScore: o.LeftScore,
	}
}

// Score adjudicates a match. Each castle goes to the side with strictly
// more armies on it; ties award nothing. The left side wins only with a
// strictly higher total, so an equal total is a left loss.
func Score(left, right Allocation, values PointValues) (Outcome, error) {
	if err := checkCastles(left, values); err != nil {
		return Outcome{}, fmt.Errorf("left allocation: %w", err)
	}
	if err := checkCastles(right, values); err != nil {
		return Outcome{}, fmt.Errorf("right allocation: %w", err)
	}

	castles := make([]int, 0, len(values))
	for c := range values {
		castles = append(castles, c)
	}
	sort.Ints(castles)

	var out Outcome
	for _, c := range castles {
		l, r := left.Armies(c), right.Armies(c)
		switch {
		case l > r:
			out.LeftScore += values[c]
		case r > l:
			out.RightScore += values[c]
		}
	}
	out.LeftWon = out.LeftScore > out.RightScore
	return out, nil
}

func checkCastles(a Allocation, values PointValues) error {
	for c, n := range a {
		if _, ok := values[c]; !ok {
			return fmt.Errorf("%w: castle %d", ErrUnknownCastle, c)
		}
		if n < 0 {
			return fmt.Errorf("%w: castle %d has %d", ErrNegativeArmies, c, n)
		}
	}
	return nil
}
