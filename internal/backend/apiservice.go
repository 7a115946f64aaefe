package backend

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/imagedepot/internal/backend/database"
	"github.com/jo-hoe/imagedepot/internal/common"
	"github.com/jo-hoe/imagedepot/internal/core"
	"github.com/jo-hoe/imagedepot/internal/metrics"

	"github.com/labstack/echo/v4"
)

const (
	ListingPath    = "/"
	noImageMessage = "No image exists"
	probeRoutePath = "/probe"
	metricsRoute   = "/metrics"
)

// ErrorResponse is the JSON body of the explicitly handled error paths.
type ErrorResponse struct {
	Err string `json:"err"`
}

type imageFilenameRequest struct {
	Filename string `param:"filename" validate:"required"`
}

type imageIDRequest struct {
	ID string `param:"id" validate:"required"`
}

type APIService struct {
	coreService *core.CoreService
	metrics     metrics.Metrics
}

func NewAPIService(coreService *core.CoreService, m metrics.Metrics) *APIService {
	if m == nil {
		m = metrics.Noop{}
	}
	return &APIService{
		coreService: coreService,
		metrics:     m,
	}
}

func (service *APIService) SetRoutes(e *echo.Echo) {
	if e.Validator == nil {
		e.Validator = &common.GenericEchoValidator{}
	}

	e.POST("/upload", service.uploadImageHandler)
	e.GET("/image/:filename", service.getImageHandler)
	e.DELETE("/image/del/:id", service.deleteImageHandler)

	e.GET(probeRoutePath, service.probeHandler)
	if exporter, ok := service.metrics.(interface{ Handler() http.Handler }); ok {
		e.GET(metricsRoute, echo.WrapHandler(exporter.Handler()))
	}
}

func (service *APIService) uploadImageHandler(ctx echo.Context) error {
	upload, err := DecodeUpload(ctx, UploadFieldName)
	if err != nil {
		service.metrics.IncUploads(metrics.ResultInvalid)
		slog.Warn("uploadImageHandler: failed to decode upload",
			"status", http.StatusBadRequest, "error", err)
		if errors.Is(err, ErrNoFile) {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{Err: ErrNoFile.Error()})
		}
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Err: err.Error()})
	}

	record, err := service.coreService.AddImage(ctx.Request().Context(), upload)
	if err != nil {
		service.metrics.IncUploads(metrics.ResultError)
		slog.Error("uploadImageHandler: failed to store image",
			"status", http.StatusInternalServerError, "error", err, "original_name", upload.OriginalName)
		return err
	}

	service.metrics.IncUploads(metrics.ResultOK)
	slog.Info("uploadImageHandler: image stored",
		"image_id", record.ID, "filename", record.Filename, "content_type", record.ContentType)
	return ctx.Redirect(http.StatusFound, ListingPath)
}

func (service *APIService) getImageHandler(ctx echo.Context) error {
	var req imageFilenameRequest
	if err := (&echo.DefaultBinder{}).BindPathParams(ctx, &req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	contentType, data, err := service.coreService.GetImageData(ctx.Request().Context(), req.Filename)
	if errors.Is(err, database.ErrNotFound) {
		service.metrics.IncFetches(metrics.ResultNotFound)
		slog.Warn("getImageHandler: image not found",
			"status", http.StatusNotFound, "filename", req.Filename)
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Err: noImageMessage})
	}
	if err != nil {
		service.metrics.IncFetches(metrics.ResultError)
		slog.Error("getImageHandler: failed to load image",
			"status", http.StatusInternalServerError, "filename", req.Filename, "error", err)
		return err
	}

	service.metrics.IncFetches(metrics.ResultOK)
	return ctx.Blob(http.StatusOK, contentType, data)
}

// deleteImageHandler reports every failure, malformed ids included, as 404.
func (service *APIService) deleteImageHandler(ctx echo.Context) error {
	var req imageIDRequest
	if err := (&echo.DefaultBinder{}).BindPathParams(ctx, &req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	if err := service.coreService.DeleteImage(ctx.Request().Context(), req.ID); err != nil {
		result := metrics.ResultError
		if errors.Is(err, database.ErrInvalidID) {
			result = metrics.ResultInvalid
		}
		service.metrics.IncDeletes(result)
		slog.Warn("deleteImageHandler: failed to delete image",
			"status", http.StatusNotFound, "image_id", req.ID, "error", err)
		return ctx.JSON(http.StatusNotFound, ErrorResponse{Err: err.Error()})
	}

	service.metrics.IncDeletes(metrics.ResultOK)
	slog.Info("deleteImageHandler: image deleted", "image_id", req.ID)
	return ctx.Redirect(http.StatusFound, ListingPath)
}

func (service *APIService) probeHandler(ctx echo.Context) error {
	if !service.coreService.IsHealthy(ctx.Request().Context()) {
		return ctx.String(http.StatusServiceUnavailable, "database unavailable")
	}
	return ctx.String(http.StatusOK, "API Service is running")
}
