package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/imagedepot/internal/backend/database"
)

// Upload is a decoded single-file submission.
type Upload struct {
	OriginalName string
	ContentType  string
	Data         []byte
}

type CoreService struct {
	databaseService  database.DatabaseService
	generateFilename func(originalName string) (string, error)
}

// NewCoreService wraps an already initialized store. The caller owns the store
// and releases it through Close.
func NewCoreService(databaseService database.DatabaseService) *CoreService {
	return &CoreService{
		databaseService:  databaseService,
		generateFilename: GenerateFilename,
	}
}

// NewDatabaseService opens the store described by config.
func NewDatabaseService(ctx context.Context, config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(ctx, config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

// AddImage stores upload under a freshly generated filename and returns the persisted record.
func (service *CoreService) AddImage(ctx context.Context, upload *Upload) (*database.ImageRecord, error) {
	filename, err := service.generateFilename(upload.OriginalName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate filename: %w", err)
	}

	record, err := service.databaseService.CreateImage(ctx, &database.ImageRecord{
		Filename:    filename,
		ContentType: upload.ContentType,
		ImageData:   base64.StdEncoding.EncodeToString(upload.Data),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store image %s: %w", filename, err)
	}
	slog.Debug("image stored", "image_id", record.ID, "filename", record.Filename,
		"original_name", upload.OriginalName, "size_bytes", len(upload.Data))
	return record, nil
}

func (service *CoreService) GetImages(ctx context.Context) ([]*database.ImageRecord, error) {
	return service.databaseService.GetAllImages(ctx)
}

// GetImageData returns the stored content type and the decoded bytes for filename.
// Unknown filenames yield database.ErrNotFound.
func (service *CoreService) GetImageData(ctx context.Context, filename string) (string, []byte, error) {
	record, err := service.databaseService.GetImageByFilename(ctx, filename)
	if err != nil {
		return "", nil, err
	}
	data, err := base64.StdEncoding.DecodeString(record.ImageData)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return record.ContentType, data, nil
}

func (service *CoreService) DeleteImage(ctx context.Context, id string) error {
	return service.databaseService.DeleteImage(ctx, id)
}

func (service *CoreService) IsHealthy(ctx context.Context) bool {
	return service.databaseService.DoesDatabaseExist(ctx)
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}
