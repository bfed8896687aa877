package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"troopsite/internal/config"
	"troopsite/internal/models"
	"troopsite/internal/storage"
)

type MockUploadRepository struct {
	mock.Mock
}

func (m *MockUploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	args := m.Called(ctx, upload)
	if args.Error(0) == nil {
		upload.ID = 1
	}
	return args.Error(0)
}

func (m *MockUploadRepository) List(ctx context.Context) ([]models.Upload, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Upload), args.Error(1)
}

type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) Upsert(ctx context.Context, announcement *models.Announcement) error {
	args := m.Called(ctx, announcement)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) GetLatest(ctx context.Context) (*models.Announcement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, fileName string, file io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, fileName, file, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func TestAuthService_PlainPassword(t *testing.T) {
	auth := NewAuthService(&config.Config{AdminPassword: "be-prepared"})

	assert.NoError(t, auth.Login("be-prepared"))
	assert.ErrorIs(t, auth.Login("be-prepared "), ErrInvalidPassword)
	assert.ErrorIs(t, auth.Login("wrong"), ErrInvalidPassword)
	assert.ErrorIs(t, auth.Login(""), ErrInvalidPassword)
}

func TestAuthService_HashedPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("do-a-good-turn"), bcrypt.MinCost)
	require.NoError(t, err)

	auth := NewAuthService(&config.Config{
		AdminPassword:     "ignored-when-hash-set",
		AdminPasswordHash: string(hash),
	})

	assert.NoError(t, auth.Login("do-a-good-turn"))
	assert.ErrorIs(t, auth.Login("ignored-when-hash-set"), ErrInvalidPassword)
}

func TestAuthService_UnsetSecretNeverMatches(t *testing.T) {
	auth := NewAuthService(&config.Config{})

	assert.ErrorIs(t, auth.Login(""), ErrInvalidPassword)
	assert.ErrorIs(t, auth.Login("anything"), ErrInvalidPassword)
}

func TestAuthService_CheckAPIKey(t *testing.T) {
	auth := NewAuthService(&config.Config{APIKey: "k-123"})
	assert.True(t, auth.CheckAPIKey("k-123"))
	assert.False(t, auth.CheckAPIKey("k-124"))
	assert.False(t, auth.CheckAPIKey(""))

	assert.False(t, NewAuthService(&config.Config{}).CheckAPIKey(""))
}

func TestUploadService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores file then record", func(t *testing.T) {
		repo := new(MockUploadRepository)
		store := new(MockStorage)
		svc := NewUploadService(repo, store)

		file := strings.NewReader("img")
		store.On("UploadImage", ctx, "hike.png", file, int64(3)).
			Return("1700.png", "/uploads/1700.png", nil)
		repo.On("Create", ctx, mock.MatchedBy(func(u *models.Upload) bool {
			return u.ImagePath == "/uploads/1700.png" && u.Caption == "Hike" && !u.CreatedAt.IsZero()
		})).Return(nil)

		upload, err := svc.Upload(ctx, "hike.png", file, 3, "Hike")

		require.NoError(t, err)
		assert.Equal(t, int64(1), upload.ID)
		assert.WithinDuration(t, time.Now(), upload.CreatedAt, time.Minute)
		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		repo := new(MockUploadRepository)
		store := new(MockStorage)
		svc := NewUploadService(repo, store)

		_, err := svc.Upload(ctx, "", nil, 0, "caption")

		assert.ErrorIs(t, err, ErrNoFile)
		store.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unsupported type is not recorded", func(t *testing.T) {
		repo := new(MockUploadRepository)
		store := new(MockStorage)
		svc := NewUploadService(repo, store)

		store.On("UploadImage", ctx, "notes.txt", mock.Anything, int64(1)).
			Return("", "", storage.ErrUnsupportedFileType)

		_, err := svc.Upload(ctx, "notes.txt", strings.NewReader("x"), 1, "")

		assert.ErrorIs(t, err, ErrUnsupportedFileType)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("database failure removes stored file", func(t *testing.T) {
		repo := new(MockUploadRepository)
		store := new(MockStorage)
		svc := NewUploadService(repo, store)

		store.On("UploadImage", ctx, "a.jpg", mock.Anything, int64(1)).
			Return("troop423/a.jpg", "http://cdn/troop/troop423/a.jpg", nil)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))
		store.On("DeleteImage", ctx, "troop423/a.jpg").Return(nil)

		upload, err := svc.Upload(ctx, "a.jpg", strings.NewReader("x"), 1, "")

		assert.Nil(t, upload)
		assert.Error(t, err)
		store.AssertExpectations(t)
	})
}

func TestUploadService_ListUploads(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUploadRepository)
	svc := NewUploadService(repo, new(MockStorage))

	repo.On("List", ctx).Return(nil, nil).Once()
	uploads, err := svc.ListUploads(ctx)
	require.NoError(t, err)
	assert.NotNil(t, uploads)
	assert.Empty(t, uploads)

	repo.On("List", ctx).Return(nil, errors.New("boom")).Once()
	_, err = svc.ListUploads(ctx)
	assert.Error(t, err)
}

func TestAnnouncementService_SetAnnouncement(t *testing.T) {
	ctx := context.Background()

	for _, content := range []string{"", "   ", "\n\t "} {
		repo := new(MockAnnouncementRepository)
		svc := NewAnnouncementService(repo)

		_, err := svc.SetAnnouncement(ctx, content)

		assert.ErrorIs(t, err, ErrEmptyContent)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	}

	repo := new(MockAnnouncementRepository)
	svc := NewAnnouncementService(repo)
	repo.On("Upsert", ctx, mock.MatchedBy(func(a *models.Announcement) bool {
		return a.ID == models.AnnouncementID && a.Content == " Troop meeting Friday "
	})).Return(nil)

	announcement, err := svc.SetAnnouncement(ctx, " Troop meeting Friday ")

	require.NoError(t, err)
	assert.Equal(t, " Troop meeting Friday ", announcement.Content)
	repo.AssertExpectations(t)
}

func TestAnnouncementService_GetAnnouncement(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAnnouncementRepository)
	svc := NewAnnouncementService(repo)

	repo.On("GetLatest", ctx).Return(nil, nil)

	announcement, err := svc.GetAnnouncement(ctx)
	assert.NoError(t, err)
	assert.Nil(t, announcement)
}
