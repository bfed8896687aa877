package models

import (
	"time"
)

// AnnouncementID is the fixed identity of the one announcement row.
const AnnouncementID = 1

type Upload struct {
	ID        int64     `json:"id" db:"id"`
	ImagePath string    `json:"imagePath" db:"image_path"`
	Caption   string    `json:"caption" db:"caption"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Announcement struct {
	ID        int       `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// SessionRecord is a serialized server-side session.
type SessionRecord struct {
	ID        string    `db:"id"`
	Data      []byte    `db:"data"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (s *SessionRecord) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
