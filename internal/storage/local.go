package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"
)

// PublicPrefix is the URL path stored files are served under.
const PublicPrefix = "/uploads"

type LocalStorage struct {
	dir string
	now func() time.Time
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalStorage{dir: dir, now: time.Now}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

// UploadImage writes the file as <epoch-millis><ext>. On a name clash the
// timestamp is bumped until a free name is found.
func (s *LocalStorage) UploadImage(ctx context.Context, fileName string, file io.Reader, size int64) (string, string, error) {
	ext := filepath.Ext(filepath.Base(fileName))
	millis := s.now().UnixMilli()

	var (
		dst  *os.File
		name string
		err  error
	)
	for attempt := 0; attempt < 100; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}

		name = strconv.FormatInt(millis+int64(attempt), 10) + ext
		dst, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil || !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}

	return name, path.Join(PublicPrefix, name), nil
}

func (s *LocalStorage) DeleteImage(ctx context.Context, objectName string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(objectName)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
