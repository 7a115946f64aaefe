package database

import "context"

type DatabaseService interface {
	CreateDatabase(ctx context.Context) error
	DoesDatabaseExist(ctx context.Context) bool
	Close() error

	// CreateImage persists a new record and returns it with the store-assigned ID.
	// A filename that already exists yields ErrDuplicateFilename.
	CreateImage(ctx context.Context, record *ImageRecord) (*ImageRecord, error)
	// GetAllImages returns every record in insertion order. Stores without a
	// native order (redis, minio) record a sequence or creation time for it.
	GetAllImages(ctx context.Context) ([]*ImageRecord, error)
	// GetImageByFilename returns ErrNotFound when no record carries the filename.
	GetImageByFilename(ctx context.Context, filename string) (*ImageRecord, error)
	// DeleteImage removes the record with the given ID. A malformed ID yields ErrInvalidID,
	// a well-formed ID without a record is not an error.
	DeleteImage(ctx context.Context, id string) error
}
