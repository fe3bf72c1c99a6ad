package trainer

import "errors"

var (
	ErrInvalidSide       = errors.New("invalid side")
	ErrNoBest            = errors.New("no best member tracked yet")
	ErrAlreadyTrained    = errors.New("trainer has already run")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrInvalidOptions    = errors.New("invalid trainer options")
)
