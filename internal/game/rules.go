package game

import "fmt"

// Rules holds the fixed parameters of a contest: how many castles there are
// and how many armies each side must place.
type Rules struct {
	NumCastles int
	Budget     int
}

// Validate checks the rules are usable for play.
func (r Rules) Validate() error {
	if r.NumCastles < 1 {
		return fmt.Errorf("%w: need at least one castle, got %d", ErrInvalidRules, r.NumCastles)
	}
	if r.Budget < 0 {
		return fmt.Errorf("%w: army budget must be non-negative, got %d", ErrInvalidRules, r.Budget)
	}
	return nil
}

// Castles returns the castle ids 1..N in ascending order.
func (r Rules) Castles() []int {
	castles := make([]int, r.NumCastles)
	for i := range castles {
		castles[i] = i + 1
	}
	return castles
}

// PointValues returns the value of every castle. Castle i is worth i points.
func (r Rules) PointValues() PointValues {
	values := make(PointValues, r.NumCastles)
	for _, c := range r.Castles() {
		values[c] = c
	}
	return values
}

// PointValues maps castle id to the points awarded for winning it.
type PointValues map[int]int

// Total returns the sum of all castle values.
func (pv PointValues) Total() int {
	total := 0
	for _, v := range pv {
		total += v
	}
	return total
}
