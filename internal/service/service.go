package service

import (
	"troopsite/internal/config"
	"troopsite/internal/repository"
	"troopsite/internal/storage"
)

type Service struct {
	Auth         AuthService
	Upload       UploadService
	Announcement AnnouncementService
	Tables       TablesService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		Auth:         NewAuthService(cfg),
		Upload:       NewUploadService(rep.Upload, storage),
		Announcement: NewAnnouncementService(rep.Announcement),
		Tables:       NewTablesService(rep.Tables),
	}
}
