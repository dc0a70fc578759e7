// Package session issues and verifies the admin session cookie. The session
// lives entirely in a signed token on the client; nothing is stored server
// side.
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portfolio/internal/config"
	"portfolio/internal/security"
)

const CookieName = "session"

// Payload is the decoded content of a valid session token.
type Payload struct {
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Manager struct {
	secret string
	ttl    time.Duration
	secure bool
	log    zerolog.Logger
	now    func() time.Time
}

// NewManager reads the signing secret and lifetime once. Cookies are marked
// Secure unless secure is false (local development).
func NewManager(cfg config.SecurityConfig, secure bool, log zerolog.Logger) *Manager {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{
		secret: cfg.JWTSecret,
		ttl:    ttl,
		secure: secure,
		log:    log,
		now:    time.Now,
	}
}

// Issue signs a token for username without touching any response.
func (m *Manager) Issue(username string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	token, err := security.GenerateSessionToken(m.secret, username, now, expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Create issues a token for username and stores it in the session cookie.
// The caller must have checked the credentials.
func (m *Manager) Create(c *gin.Context, username string) (string, error) {
	token, expiresAt, err := m.Issue(username)
	if err != nil {
		return "", err
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

// Parse verifies a raw token. Every failure is reported as no session.
func (m *Manager) Parse(token string) (*Payload, bool) {
	claims, err := security.ParseSessionToken(token, m.secret, m.now)
	if err != nil {
		m.log.Debug().Err(err).Msg("session verification failed")
		return nil, false
	}

	payload := &Payload{Username: claims.Username}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}
	return payload, true
}

// Verify reads the session cookie from the request. A missing cookie and an
// invalid one are indistinguishable to the caller.
func (m *Manager) Verify(c *gin.Context) (*Payload, bool) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return nil, false
	}
	return m.Parse(token)
}

// Delete expires the session cookie. Safe to call without a session.
func (m *Manager) Delete(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
