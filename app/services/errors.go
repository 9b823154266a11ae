package services

import (
	"errors"
	"fmt"
)

// ErrInvalid marks input rejected by validation.
var ErrInvalid = errors.New("invalid input")

func invalid(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalid, what, err)
}
