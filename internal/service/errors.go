package service

import "errors"

// ErrInvalidInput marks request-level validation failures that never reach
// the calculator, such as a blank group name.
var ErrInvalidInput = errors.New("invalid input")
