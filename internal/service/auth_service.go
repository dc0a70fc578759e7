package service

import (
	"github.com/rs/zerolog"

	"portfolio/internal/config"
	"portfolio/internal/security"
)

// AuthService checks admin credentials against configuration. There is a
// single admin account; no lockout or rate limiting is applied.
type AuthService struct {
	cfg config.SecurityConfig
	log zerolog.Logger
}

func NewAuthService(cfg config.SecurityConfig, log zerolog.Logger) *AuthService {
	return &AuthService{cfg: cfg, log: log}
}

// VerifyCredentials reports whether username and password match the
// configured admin. Comparison is exact and case-sensitive. When an argon2id
// hash is configured it replaces the plain password.
func (s *AuthService) VerifyCredentials(username, password string) bool {
	if username != s.cfg.AdminUsername {
		return false
	}

	if s.cfg.AdminPasswordHash != "" {
		ok, err := security.VerifyPassword(password, s.cfg.AdminPasswordHash)
		if err != nil {
			s.log.Error().Err(err).Msg("admin password hash is malformed")
			return false
		}
		return ok
	}

	return password == s.cfg.AdminPassword
}

// Login returns ErrInvalidCredentials when VerifyCredentials fails.
func (s *AuthService) Login(username, password string) error {
	if !s.VerifyCredentials(username, password) {
		return ErrInvalidCredentials
	}
	return nil
}
