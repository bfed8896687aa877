package test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"troopsite/internal/models"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(password string) error {
	args := m.Called(password)
	return args.Error(0)
}

func (m *MockAuthService) CheckAPIKey(key string) bool {
	args := m.Called(key)
	return args.Bool(0)
}

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, fileName string, file io.Reader, size int64, caption string) (*models.Upload, error) {
	args := m.Called(ctx, fileName, file, size, caption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Upload), args.Error(1)
}

func (m *MockUploadService) ListUploads(ctx context.Context) ([]models.Upload, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Upload), args.Error(1)
}

type MockAnnouncementService struct {
	mock.Mock
}

func (m *MockAnnouncementService) SetAnnouncement(ctx context.Context, content string) (*models.Announcement, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) GetAnnouncement(ctx context.Context) (*models.Announcement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) GetCountTablesDB() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

type MockTablesRepository struct {
	mock.Mock
}

func (m *MockTablesRepository) CountTablesDB() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
