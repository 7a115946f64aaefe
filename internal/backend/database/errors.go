package database

import "errors"

var (
	ErrNotFound          = errors.New("image not found")
	ErrInvalidID         = errors.New("invalid image id")
	ErrDuplicateFilename = errors.New("filename already exists")
)
