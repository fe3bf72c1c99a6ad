package trainer

import (
	"fmt"
	"strings"
)

// Side identifies one of the two competing populations.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ParseSide accepts exactly "left" or "right", case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("%w: %q (want \"left\" or \"right\")", ErrInvalidSide, s)
	}
}
