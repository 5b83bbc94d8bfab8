package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (AuthService, *auth.SessionService) {
	t.Helper()
	f := newFixture()
	f.store.addStudent(&models.Student{ID: 7, RollNumber: "21-0007", Username: "ada"})

	hash, err := auth.HashPasswordCost("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admins := &fakeAdminRepo{s: f.store}
	if err := admins.Create(context.Background(), &models.Admin{ID: 1, Username: "admin", PasswordHash: hash}); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	sessions := auth.NewSessionService(auth.SessionConfig{SecretKey: "test-secret", TTL: time.Hour, TokenIssuer: "courseregistry"})
	return NewAuthService(f.students, admins, sessions, testLogger), sessions
}

func TestStudentLoginIssuesStudentSession(t *testing.T) {
	svc, sessions := newAuthFixture(t)

	student, token, err := svc.StudentLogin(context.Background(), " 21-0007 ")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if student.ID != 7 {
		t.Fatalf("expected student 7, got %d", student.ID)
	}
	identity, err := sessions.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if identity.ID != 7 || identity.Role != models.RoleStudent {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestStudentLoginFailures(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.StudentLogin(context.Background(), "99-9999")
	if !errors.Is(err, apperrors.ErrInvalidCredentials) || err.Error() != "Roll number not found" {
		t.Fatalf("expected roll number not found, got %v", err)
	}
	_, _, err = svc.StudentLogin(context.Background(), "")
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected ValidationFailed, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	svc, sessions := newAuthFixture(t)

	_, token, err := svc.AdminLogin(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	identity, err := sessions.Validate(token)
	if err != nil || identity.Role != models.RoleAdmin {
		t.Fatalf("expected admin identity, got %+v err=%v", identity, err)
	}

	for _, creds := range [][2]string{{"admin", "wrong"}, {"ghost", "s3cret"}} {
		if _, _, err := svc.AdminLogin(context.Background(), creds[0], creds[1]); !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Fatalf("expected InvalidCredentials for %v, got %v", creds, err)
		}
	}
}
