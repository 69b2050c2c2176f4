package errors

import "errors"

var (
	ErrInvalidDocumentInput = errors.New("invalid document input")
	ErrDocumentNotFound     = errors.New("document not found")
)
