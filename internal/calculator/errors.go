package calculator

import "errors"

var (
	ErrEmptyInput       = errors.New("empty input")
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidWindow    = errors.New("invalid window")
	ErrInvalidHorizon   = errors.New("invalid horizon")
	ErrDivideByZero     = errors.New("divide by zero")
)
