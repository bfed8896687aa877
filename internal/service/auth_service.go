package service

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"troopsite/internal/config"
)

var ErrInvalidPassword = errors.New("invalid password")

type AuthService interface {
	// Login checks the admin password. It returns ErrInvalidPassword on mismatch.
	Login(password string) error
	// CheckAPIKey reports whether key matches the configured shared API key.
	CheckAPIKey(key string) bool
}

type authService struct {
	password     []byte
	passwordHash []byte
	apiKey       []byte
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{
		password:     []byte(cfg.AdminPassword),
		passwordHash: []byte(cfg.AdminPasswordHash),
		apiKey:       []byte(cfg.APIKey),
	}
}

func (s *authService) Login(password string) error {
	if password == "" {
		return ErrInvalidPassword
	}

	if len(s.passwordHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
			return ErrInvalidPassword
		}
		return nil
	}

	// an unset secret never matches
	if len(s.password) == 0 || subtle.ConstantTimeCompare(s.password, []byte(password)) != 1 {
		return ErrInvalidPassword
	}

	return nil
}

func (s *authService) CheckAPIKey(key string) bool {
	if len(s.apiKey) == 0 || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare(s.apiKey, []byte(key)) == 1
}
