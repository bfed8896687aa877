package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"troopsite/internal/config"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

// Storage persists uploaded images. UploadImage returns the backend object
// name (used for DeleteImage) and the path or URL clients load the image from.
type Storage interface {
	UploadImage(ctx context.Context, fileName string, file io.Reader, size int64) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
}

func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Backend {
	case config.StorageLocal:
		return NewLocalStorage(cfg.Storage.UploadDir)
	case config.StorageMinIO:
		return NewMinIOClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
