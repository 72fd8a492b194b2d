package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jo-hoe/taggallery/internal/backend/blobstore"
	"github.com/jo-hoe/taggallery/internal/backend/database"
)

var (
	// ErrBlobWrite means nothing was persisted.
	ErrBlobWrite = errors.New("failed to write image blob")
	// ErrPersistence means the blob was written but its metadata row was not.
	ErrPersistence = errors.New("failed to persist image metadata")
)

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	blobStore       blobstore.BlobStore
}

func NewCoreService(ctx context.Context, config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		return nil, err
	}
	blobStore, err := getBlobStore(ctx, config)
	if err != nil {
		_ = databaseService.Close()
		return nil, err
	}
	return NewCoreServiceWithStores(config, databaseService, blobStore), nil
}

// NewCoreServiceWithStores wires already opened stores. The service takes ownership and closes them in Close.
func NewCoreServiceWithStores(config *ServiceConfig, databaseService database.DatabaseService, blobStore blobstore.BlobStore) *CoreService {
	return &CoreService{
		config:          config,
		databaseService: databaseService,
		blobStore:       blobStore,
	}
}

// AddImage stores the uploaded bytes under a fresh id and then records the
// metadata row. The row is only written after the blob write succeeded.
// On ErrPersistence the returned id names the blob that was written.
func (service *CoreService) AddImage(ctx context.Context, tag string, contentType string, src io.Reader) (string, error) {
	id, err := database.GenerateID()
	if err != nil {
		return "", fmt.Errorf("failed to generate image id: %w", err)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read image payload: %w", err)
	}

	if err := service.blobStore.Put(ctx, id, data, contentType); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrBlobWrite, id, err)
	}
	slog.Info("image blob is uploaded", "image_id", id, "content_type", contentType, "size_bytes", len(data))

	if err := service.databaseService.CreateImage(ctx, id, tag); err != nil {
		if service.config.Upload.DeleteBlobOnMetadataFailure {
			service.deleteOrphanedBlob(ctx, id)
		} else {
			slog.Warn("image blob left without metadata row", "image_id", id)
		}
		return id, fmt.Errorf("%w %s: %w", ErrPersistence, id, err)
	}

	return id, nil
}

func (service *CoreService) deleteOrphanedBlob(ctx context.Context, id string) {
	// The request context may already be done; the cleanup should still run.
	if err := service.blobStore.Delete(context.WithoutCancel(ctx), id); err != nil {
		slog.Error("failed to delete orphaned image blob", "image_id", id, "error", err)
		return
	}
	slog.Info("deleted orphaned image blob", "image_id", id)
}

// GetImages returns all image records, newest first. Never nil.
func (service *CoreService) GetImages(ctx context.Context) ([]*database.Image, error) {
	images, err := service.databaseService.GetAllImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	if images == nil {
		images = []*database.Image{}
	}
	return images, nil
}

// GetRandomImagesByTag returns at most one record whose tag equals tag exactly.
func (service *CoreService) GetRandomImagesByTag(ctx context.Context, tag string) ([]*database.Image, error) {
	image, err := service.databaseService.GetRandomImageByTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to pick random image for tag: %w", err)
	}
	if image == nil {
		return []*database.Image{}, nil
	}
	return []*database.Image{image}, nil
}

// GetFile returns blobstore.ErrNotFound (wrapped) for unknown ids.
func (service *CoreService) GetFile(ctx context.Context, id string) (*blobstore.Object, error) {
	object, err := service.blobStore.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", id, err)
	}
	return object, nil
}

// Healthy reports whether both stores respond.
func (service *CoreService) Healthy(ctx context.Context) bool {
	if !service.databaseService.DoesDatabaseExist(ctx) {
		return false
	}
	return service.blobStore.Ping(ctx) == nil
}

func (service *CoreService) Close() error {
	return errors.Join(service.blobStore.Close(), service.databaseService.Close())
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

func getBlobStore(ctx context.Context, config *ServiceConfig) (blobstore.BlobStore, error) {
	blobStore, err := blobstore.NewBlobStore(ctx, config.BlobStore.Type, config.BlobStore.ConnectionString, config.BlobStore.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}
	return blobStore, nil
}
