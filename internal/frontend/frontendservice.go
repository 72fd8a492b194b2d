package frontend

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/taggallery/internal/backend/database"
	"github.com/jo-hoe/taggallery/internal/common"
	"github.com/jo-hoe/taggallery/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName = "index.html"
	mimeSVG      = "image/svg+xml"
)

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

type indexPage struct {
	Images []*database.Image
}

// uploadForm is the text part of the upload; the file part is read separately.
type uploadForm struct {
	Tag string `form:"tag" validate:"required,min=1"`
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Create template renderer
	e.Renderer = NewTemplate()

	guard := common.NewBasicAuthGuard(service.config.Auth.Username, service.config.Auth.Password)
	e.GET("/", service.indexHandler, guard)
	e.POST("/", service.uploadImageHandler, guard)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	images, err := service.coreService.GetImages(ctx.Request().Context())
	if err != nil {
		slog.Error("indexHandler: failed to list images",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list images")
	}

	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, MainPageName, indexPage{Images: images})
}

func (service *FrontendService) uploadImageHandler(ctx echo.Context) error {
	var form uploadForm
	if err := ctx.Bind(&form); err != nil {
		return err
	}
	if err := ctx.Validate(&form); err != nil {
		return err
	}

	// Get uploaded file
	file, err := ctx.FormFile("file")
	if err != nil {
		// A "file" field sent as plain text is not an upload; nothing is stored.
		if errors.Is(err, http.ErrMissingFile) && ctx.FormValue("file") != "" {
			slog.Warn("uploadImageHandler: file field is not a file payload, skipping upload", "tag", form.Tag)
			return ctx.Redirect(http.StatusSeeOther, "/")
		}
		slog.Warn("uploadImageHandler: failed to get uploaded file",
			"status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "received invalid request: missing file")
	}

	src, err := file.Open()
	if err != nil {
		slog.Error("uploadImageHandler: failed to open uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.String(http.StatusInternalServerError, "Failed to open uploaded file")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("uploadImageHandler: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()

	contentType := file.Header.Get(echo.HeaderContentType)
	id, err := service.coreService.AddImage(ctx.Request().Context(), form.Tag, contentType, src)
	if err != nil {
		slog.Error("uploadImageHandler: failed to store uploaded image",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename, "image_id", id)
		return ctx.String(http.StatusInternalServerError, "Something went wrong")
	}

	slog.Info("uploadImageHandler: image stored", "image_id", id, "tag", form.Tag, "filename", file.Filename)
	return ctx.Redirect(http.StatusSeeOther, "/")
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimeSVG, data)
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
