// Package auth issues and verifies the admin session token. There is a
// single admin identity: authentication compares the submitted password
// against a bcrypt hash from configuration and returns a signed JWT.
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"yoyaku/pkg/config"
	apperrors "yoyaku/pkg/errors"
)

type Claims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Authenticate(password string) (string, error)
	VerifyToken(tokenStr string) (*Claims, error)
}

type authService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg}
}

// Authenticate checks the admin password and returns a signed token.
// A wrong password and a missing hash both surface as Unauthorized so the
// response never reveals whether admin login is configured.
func (s *authService) Authenticate(password string) (string, error) {
	if s.cfg.AdminPasswordHash == "" {
		s.cfg.Log.Warn("Admin authentication attempted without a configured password hash")
		return "", apperrors.Unauthorized("Invalid password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return "", apperrors.Unauthorized("Invalid password")
	}

	now := time.Now()
	claims := Claims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AdminTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", apperrors.Internal("Failed to sign admin token", err)
	}
	return signed, nil
}

func (s *authService) VerifyToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}
