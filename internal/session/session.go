// Package session mints and validates the signed session cookie.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"staffadmin/internal/permission"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "session"
	DefaultTTL = 7 * 24 * time.Hour
)

var ErrInvalid = errors.New("invalid session")

// Payload is what a session proves about its holder.
type Payload struct {
	Username    string               `json:"username"`
	Role        string               `json:"role"`
	UserID      uint                 `json:"userId"`
	Permissions *permission.Document `json:"permissions"`
	ExpiresAt   time.Time            `json:"expiresAt"`
}

type claims struct {
	Username    string               `json:"username"`
	Role        string               `json:"role"`
	UserID      uint                 `json:"userId"`
	Permissions *permission.Document `json:"permissions"`
	jwt.RegisteredClaims
}

// Manager signs session tokens with HS256. It keeps no server-side state, so
// a token stays valid until it expires.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager. secure marks cookies Secure (production).
func NewManager(secret string, ttl time.Duration, secure bool, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Mint signs p with a fresh expiry and token id. p.ExpiresAt is ignored.
func (m *Manager) Mint(p Payload) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	c := &claims{
		Username:    p.Username,
		Role:        p.Role,
		UserID:      p.UserID,
		Permissions: p.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(p.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, c.ExpiresAt.Time, nil
}

// Parse checks signature and expiry. Every failure is reported as ErrInvalid.
func (m *Manager) Parse(token string) (*Payload, error) {
	if token == "" {
		return nil, ErrInvalid
	}
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	return &Payload{
		Username:    c.Username,
		Role:        c.Role,
		UserID:      c.UserID,
		Permissions: c.Permissions,
		ExpiresAt:   c.ExpiresAt.Time,
	}, nil
}

// Renew re-signs a valid token with the same claims and a fresh expiry.
func (m *Manager) Renew(token string) (string, *Payload, error) {
	p, err := m.Parse(token)
	if err != nil {
		return "", nil, err
	}
	renewed, expiresAt, err := m.Mint(*p)
	if err != nil {
		return "", nil, err
	}
	p.ExpiresAt = expiresAt
	return renewed, p, nil
}

// SetCookie writes the httpOnly, SameSite=Lax session cookie.
func (m *Manager) SetCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(expiresAt.Sub(m.now()).Seconds())
	if maxAge <= 0 {
		maxAge = int(m.ttl.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", m.secure, true)
}

func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}

// FromRequest returns the session cookie value or "".
func FromRequest(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}
