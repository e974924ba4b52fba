// Package auth guards the gateway: HMAC-signed JWTs for callers and a
// bcrypt-hashed shared token for internal tooling.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrJWTDisabled      = errors.New("jwt auth is not configured")
	ErrInternalDisabled = errors.New("internal token auth is not configured")
	ErrInvalidToken     = errors.New("invalid token")
)

const DefaultTTL = 12 * time.Hour

type Service struct {
	issuer       string
	secret       []byte
	ttl          time.Duration
	internalHash []byte
}

// NewService builds the auth service. An empty secret disables JWTs and an
// empty internalHash disables the internal token.
func NewService(issuer string, secret []byte, ttl time.Duration, internalHash string) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{issuer: issuer, secret: secret, ttl: ttl, internalHash: []byte(strings.TrimSpace(internalHash))}
}

func (s *Service) JWTEnabled() bool {
	return len(s.secret) > 0
}

func (s *Service) InternalEnabled() bool {
	return len(s.internalHash) > 0
}

func (s *Service) IssueToken(subject string) (string, error) {
	if !s.JWTEnabled() {
		return "", ErrJWTDisabled
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("subject is required")
	}
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// ParseToken returns the subject of a valid token.
func (s *Service) ParseToken(token string) (string, error) {
	if !s.JWTEnabled() {
		return "", ErrJWTDisabled
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", errors.New("invalid subject")
	}
	return claims.Subject, nil
}

func (s *Service) CheckInternalToken(token string) error {
	if !s.InternalEnabled() {
		return ErrInternalDisabled
	}
	if token == "" {
		return ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword(s.internalHash, []byte(token)); err != nil {
		return ErrInvalidToken
	}
	return nil
}

func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewInternalToken returns 32 random bytes, hex encoded.
func NewInternalToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
