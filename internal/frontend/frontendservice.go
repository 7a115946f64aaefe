package frontend

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/jo-hoe/imagedepot/internal/backend/database"
	"github.com/jo-hoe/imagedepot/internal/core"
	"github.com/labstack/echo/v4"
)

const MainPageName = "index.html"

type FrontendService struct {
	coreService *core.CoreService
}

// listingEntry is the view model of one stored image.
type listingEntry struct {
	ID            string
	Filename      string
	ContentType   string
	Size          string
	Width         int
	Height        int
	HasDimensions bool
}

type listingPage struct {
	Files []listingEntry
}

func NewFrontendService(coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = NewTemplate()

	e.GET("/", service.indexHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	images, err := service.coreService.GetImages(ctx.Request().Context())
	if err != nil {
		slog.Error("indexHandler: failed to list images",
			"status", http.StatusInternalServerError, "error", err)
		return err
	}

	page := listingPage{Files: make([]listingEntry, 0, len(images))}
	for _, image := range images {
		page.Files = append(page.Files, toListingEntry(image))
	}

	// Prevent caching so the latest images are always shown
	service.setNoCache(ctx)

	return ctx.Render(http.StatusOK, MainPageName, page)
}

func toListingEntry(image *database.ImageRecord) listingEntry {
	entry := listingEntry{
		ID:          image.ID,
		Filename:    image.Filename,
		ContentType: image.ContentType,
		Size:        "unknown size",
	}

	data, err := base64.StdEncoding.DecodeString(image.ImageData)
	if err != nil {
		slog.Warn("toListingEntry: stored image data is not valid base64",
			"image_id", image.ID, "filename", image.Filename, "error", err)
		return entry
	}
	entry.Size = humanize.Bytes(uint64(len(data)))
	entry.Width, entry.Height, entry.HasDimensions = imageDimensions(image.ContentType, data)
	return entry
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
