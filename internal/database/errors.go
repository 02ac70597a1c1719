package database

import "errors"

var (
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrNilRoom          = errors.New("message needs a room")
)
