package database

import (
	"fmt"

	"github.com/go-playground/validator"
)

// ImageRecord is the single persisted entity. ImageData holds the image bytes as base64 text.
type ImageRecord struct {
	ID          string `db:"id"`
	Filename    string `db:"filename" validate:"required"`
	ContentType string `db:"content_type" validate:"required"`
	ImageData   string `db:"image_data" validate:"required"`
}

var recordValidator = validator.New()

// validateRecord rejects records with missing fields so nothing is persisted partially.
func validateRecord(record *ImageRecord) error {
	if record == nil {
		return fmt.Errorf("image record is nil")
	}
	if err := recordValidator.Struct(record); err != nil {
		return fmt.Errorf("invalid image record: %w", err)
	}
	return nil
}
