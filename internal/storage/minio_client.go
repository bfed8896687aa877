package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"troopsite/internal/config"
)

// sniffLen covers every signature mimetype knows about for images.
const sniffLen = 3072

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type MinIOClient struct {
	client    *minio.Client
	bucket    string
	folder    string
	publicURL string
}

func NewMinIOClient(ctx context.Context, cfg *config.Config) (*MinIOClient, error) {
	m := cfg.Storage.MinIO

	client, err := minio.New(m.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(m.AccessKey, m.SecretKey, ""),
		Secure: m.UseSSL,
		Region: m.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, m.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", m.BucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, m.BucketName, minio.MakeBucketOptions{Region: m.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", m.BucketName, err)
		}
		log.Printf("Created bucket %s", m.BucketName)
	}

	return newMinIOClient(client, m), nil
}

func newMinIOClient(client *minio.Client, m config.MinIO) *MinIOClient {
	return &MinIOClient{
		client:    client,
		bucket:    m.BucketName,
		folder:    strings.Trim(m.Folder, "/"),
		publicURL: strings.TrimRight(m.PublicURL, "/"),
	}
}

func (m *MinIOClient) UploadImage(ctx context.Context, fileName string, file io.Reader, size int64) (string, string, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if !allowedImageExtensions[fileExt] {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, fileExt)
	}

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	header = header[:n]
	contentType := mimetype.Detect(header).String()

	objectName := m.objectName(fileExt)

	_, err = m.client.PutObject(ctx, m.bucket, objectName, io.MultiReader(bytes.NewReader(header), file), size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": filepath.Base(fileName),
				"uploaded-at":       time.Now().UTC().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return objectName, m.objectURL(objectName), nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete from minio: %w", err)
	}
	return nil
}

func (m *MinIOClient) objectName(ext string) string {
	name := uuid.New().String() + ext
	if m.folder == "" {
		return name
	}
	return m.folder + "/" + name
}

func (m *MinIOClient) objectURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, objectName)
}
