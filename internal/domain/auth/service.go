// Package auth provides authentication for the admin API surface.
package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stockflow/internal/core/apperror"
	"stockflow/pkg/logger"
)

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Token is a successful login response.
type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// AdminAccount is the single configured API identity. PasswordHash is a
// bcrypt hash, never the plain password.
type AdminAccount struct {
	Email        string
	PasswordHash string
}

// Service authenticates against the configured admin account and issues
// access tokens.
type Service struct {
	admin      AdminAccount
	jwtService *JWTService
}

// NewService creates a new auth service.
func NewService(admin AdminAccount, jwtService *JWTService) *Service {
	return &Service{admin: admin, jwtService: jwtService}
}

// Login verifies credentials and returns an access token. Both unknown
// email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, error) {
	if s.admin.Email == "" || s.admin.PasswordHash == "" {
		return nil, apperror.NewUnauthorized("authentication is not configured")
	}
	if creds.Email != s.admin.Email {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(creds.Email)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "admin logged in", "email", creds.Email)

	return &Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Validate checks a bearer token and returns the authenticated email.
func (s *Service) Validate(tokenString string) (string, error) {
	claims, err := s.jwtService.ValidateToken(tokenString)
	if err != nil {
		return "", apperror.NewUnauthorized("invalid or expired token")
	}
	return claims.Email, nil
}
