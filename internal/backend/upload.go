package backend

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jo-hoe/imagedepot/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	// UploadFieldName is the multipart form field carrying the image.
	UploadFieldName    = "file"
	defaultContentType = "application/octet-stream"
)

var ErrNoFile = errors.New("No file provided")

// DecodeUpload reads the single file submitted under field into memory together
// with its original name and declared content type.
func DecodeUpload(ctx echo.Context, field string) (*core.Upload, error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, ErrNoFile
		}
		return nil, fmt.Errorf("failed to parse upload: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", fileHeader.Filename, err)
	}
	defer func() {
		_ = src.Close()
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %s: %w", fileHeader.Filename, err)
	}

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = defaultContentType
	}

	return &core.Upload{
		OriginalName: fileHeader.Filename,
		ContentType:  contentType,
		Data:         data,
	}, nil
}
