package utils

import "errors"

var (
	// ErrConfiguration marks invalid construction input: mismatched list lengths,
	// inconsistent point counts or non-positive physical parameters.
	ErrConfiguration = errors.New("configuration error")
	// ErrNumericalFailure marks non-finite values produced while time marching.
	ErrNumericalFailure = errors.New("numerical failure")
)
