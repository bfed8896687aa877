package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"troopsite/internal/models"
	"troopsite/internal/repository"
	"troopsite/internal/storage"
)

var (
	ErrNoFile              = errors.New("no file uploaded")
	ErrUnsupportedFileType = storage.ErrUnsupportedFileType
)

type UploadService interface {
	Upload(ctx context.Context, fileName string, file io.Reader, size int64, caption string) (*models.Upload, error)
	ListUploads(ctx context.Context) ([]models.Upload, error)
}

type uploadService struct {
	uploadRepo repository.UploadRepository
	storage    storage.Storage
}

func NewUploadService(uploadRepo repository.UploadRepository, storage storage.Storage) UploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		storage:    storage,
	}
}

func (s *uploadService) Upload(ctx context.Context, fileName string, file io.Reader, size int64, caption string) (*models.Upload, error) {
	if file == nil || fileName == "" {
		return nil, ErrNoFile
	}

	objectName, imagePath, err := s.storage.UploadImage(ctx, fileName, file, size)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	upload := &models.Upload{
		ImagePath: imagePath,
		Caption:   caption,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		if delErr := s.storage.DeleteImage(ctx, objectName); delErr != nil {
			log.WithError(delErr).WithField("object", objectName).Warn("failed to remove orphaned image")
		}
		return nil, fmt.Errorf("failed to save upload record: %w", err)
	}

	log.WithFields(log.Fields{
		"id":   upload.ID,
		"path": upload.ImagePath,
		"size": humanize.Bytes(uint64(max(size, 0))),
	}).Info("image uploaded")

	return upload, nil
}

func (s *uploadService) ListUploads(ctx context.Context) ([]models.Upload, error) {
	uploads, err := s.uploadRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if uploads == nil {
		uploads = []models.Upload{}
	}
	return uploads, nil
}
