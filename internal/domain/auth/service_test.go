package auth

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"stockflow/internal/core/apperror"
)

func newTestService(t *testing.T, email, password string) *Service {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(AdminAccount{Email: email, PasswordHash: string(hash)}, jwtService)
}

func TestLogin_Success(t *testing.T) {
	svc := newTestService(t, "admin@example.com", "s3cret")

	token, err := svc.Login(context.Background(), Credentials{
		Email:    "admin@example.com",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token.AccessToken == "" {
		t.Error("expected an access token")
	}
	if token.TokenType != "Bearer" {
		t.Errorf("expected Bearer token type, got %q", token.TokenType)
	}

	email, err := svc.Validate(token.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if email != "admin@example.com" {
		t.Errorf("expected the login email back, got %q", email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(t, "admin@example.com", "s3cret")

	_, err := svc.Login(context.Background(), Credentials{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_WrongEmail(t *testing.T) {
	svc := newTestService(t, "admin@example.com", "s3cret")

	_, err := svc.Login(context.Background(), Credentials{
		Email:    "intruder@example.com",
		Password: "s3cret",
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_Unconfigured(t *testing.T) {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	svc := NewService(AdminAccount{}, jwtService)

	_, err := svc.Login(context.Background(), Credentials{
		Email:    "admin@example.com",
		Password: "s3cret",
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestValidate_BadToken(t *testing.T) {
	svc := newTestService(t, "admin@example.com", "s3cret")

	if _, err := svc.Validate("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	svc := newTestService(t, "admin@example.com", "s3cret")
	other := NewJWTService(DefaultJWTConfig("other-secret"))

	token, _, err := other.GenerateAccessToken("admin@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.Validate(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}
