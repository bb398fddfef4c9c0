package repository

import "errors"

// ErrNotFound is returned when a record does not exist, is inactive, or
// belongs to another user. The three cases are deliberately collapsed so
// responses never leak whether a foreign record exists.
var ErrNotFound = errors.New("record not found")
