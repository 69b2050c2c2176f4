package errors

import "errors"

var (
	ErrInvalidUnitInput = errors.New("invalid unit input")
	ErrUnitNotFound     = errors.New("unit not found")
)
