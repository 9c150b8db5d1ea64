package store

import "errors"

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrEngineUnavailable = errors.New("local storage engine unavailable")
	ErrConstraint        = errors.New("constraint violation")
	ErrNotFound          = errors.New("record not found")
)
