package board

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFEN  = errors.New("invalid FEN")
	ErrInvalidMove = errors.New("invalid move")
)

// FENError reports which FEN field could not be parsed.
type FENError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FENError) Error() string {
	return fmt.Sprintf("invalid FEN %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *FENError) Unwrap() error {
	return ErrInvalidFEN
}
