package game

import "errors"

var (
	ErrInvalidRules    = errors.New("invalid game rules")
	ErrNegativeArmies  = errors.New("negative army count")
	ErrUnknownCastle   = errors.New("unknown castle")
	ErrBudgetMismatch  = errors.New("allocation does not match army budget")
	ErrMissingStrategy = errors.New("strategy is nil")
)
