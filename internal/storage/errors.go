package storage

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyContent    = errors.New("empty message content")
	ErrInvalidAuthor   = errors.New("invalid message author")
)
