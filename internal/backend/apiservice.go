package backend

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/taggallery/internal/backend/blobstore"
	"github.com/jo-hoe/taggallery/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	ProbePath          = "/probe"
	defaultContentType = echo.MIMEOctetStream
)

type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
}

type randomImageQuery struct {
	Tag string `query:"tag" validate:"required,min=1"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET(ProbePath, s.probeHandler)

	e.GET("/api", s.listImagesHandler)
	e.GET("/api/random", s.randomImageHandler)
	e.GET("/file/:fileName", s.fileHandler)
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	if !s.coreService.Healthy(ctx.Request().Context()) {
		slog.Warn("probeHandler: stores not reachable", "status", http.StatusServiceUnavailable)
		return ctx.String(http.StatusServiceUnavailable, "Gallery is unavailable")
	}
	return ctx.String(http.StatusOK, "Gallery is running")
}

func (s *APIService) listImagesHandler(ctx echo.Context) error {
	images, err := s.coreService.GetImages(ctx.Request().Context())
	if err != nil {
		slog.Error("listImagesHandler: failed to list images",
			"status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list images")
	}
	return ctx.JSON(http.StatusOK, images)
}

func (s *APIService) randomImageHandler(ctx echo.Context) error {
	var query randomImageQuery
	if err := ctx.Bind(&query); err != nil {
		return err
	}
	if err := ctx.Validate(&query); err != nil {
		return err
	}

	images, err := s.coreService.GetRandomImagesByTag(ctx.Request().Context(), query.Tag)
	if err != nil {
		slog.Error("randomImageHandler: failed to pick image",
			"status", http.StatusInternalServerError, "error", err, "tag", query.Tag)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to pick image")
	}
	return ctx.JSON(http.StatusOK, images)
}

func (s *APIService) fileHandler(ctx echo.Context) error {
	id := ctx.Param("fileName")

	object, err := s.coreService.GetFile(ctx.Request().Context(), id)
	if errors.Is(err, blobstore.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		slog.Error("fileHandler: failed to read file",
			"status", http.StatusInternalServerError, "error", err, "image_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read file")
	}

	contentType := object.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	return ctx.Blob(http.StatusOK, contentType, object.Data)
}
