package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-services/internal/platform/apperr"
	"pet-services/internal/ports/auth"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)

type tokenClaims struct {
	Username    string          `json:"username"`
	Role        string          `json:"role"`
	Permissions map[string]bool `json:"permissions,omitempty"`
	DoctorID    string          `json:"doctor_id,omitempty"`
	CenterID    string          `json:"center_id,omitempty"`
	jwtlib.RegisteredClaims
}

// Manager firma y verifica tokens HS256. Implementa auth.TokenIssuer y auth.AuthVerifier.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *Manager) Issue(c auth.Claims) (string, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return "", errors.New("jwt: user id required")
	}
	now := m.now()
	claims := tokenClaims{
		Username:    c.Username,
		Role:        string(c.Role),
		Permissions: c.Permissions,
		DoctorID:    c.DoctorID,
		CenterID:    c.CenterID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   c.UserID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	t, err := jwtlib.ParseWithClaims(token, &tokenClaims{}, func(t *jwtlib.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(m.now),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	tc, ok := t.Claims.(*tokenClaims)
	if !ok || !t.Valid || strings.TrimSpace(tc.Subject) == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{
		UserID:      tc.Subject,
		Username:    tc.Username,
		Role:        auth.Role(tc.Role),
		Permissions: tc.Permissions,
		DoctorID:    tc.DoctorID,
		CenterID:    tc.CenterID,
	}, nil
}
