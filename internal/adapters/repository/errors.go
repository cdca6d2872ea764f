package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNoSnapshot      = errors.New("no scene published")
	ErrElementNotFound = errors.New("element not found")
)
