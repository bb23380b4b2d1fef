package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/shotboard/internal/models"
)

// Session - выданный токен сессии.
type Session struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        models.User `json:"user"`
}

// sessionClaims - клеймы токена: sub содержит email.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager отвечает за выпуск и проверку JWT.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue выпускает токен сессии для пользователя.
func (m *TokenManager) Issue(user models.User) (*Session, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := sessionClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("token: подпись: %w", err)
	}
	return &Session{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// Parse проверяет токен и возвращает email и роль.
func (m *TokenManager) Parse(token string) (email, role string, err error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", "", err
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, claims.Role, nil
}

// IsExpired сообщает, что ошибка разбора вызвана истёкшим токеном.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
