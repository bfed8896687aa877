package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"troopsite/internal/models"
	"troopsite/internal/repository"
)

var ErrEmptyContent = errors.New("announcement content is required")

type AnnouncementService interface {
	SetAnnouncement(ctx context.Context, content string) (*models.Announcement, error)
	// GetAnnouncement returns nil when nothing was ever posted.
	GetAnnouncement(ctx context.Context) (*models.Announcement, error)
}

type announcementService struct {
	announcementRepo repository.AnnouncementRepository
}

func NewAnnouncementService(announcementRepo repository.AnnouncementRepository) AnnouncementService {
	return &announcementService{announcementRepo: announcementRepo}
}

func (s *announcementService) SetAnnouncement(ctx context.Context, content string) (*models.Announcement, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	announcement := &models.Announcement{
		ID:        models.AnnouncementID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.announcementRepo.Upsert(ctx, announcement); err != nil {
		return nil, err
	}

	return announcement, nil
}

func (s *announcementService) GetAnnouncement(ctx context.Context) (*models.Announcement, error) {
	return s.announcementRepo.GetLatest(ctx)
}
