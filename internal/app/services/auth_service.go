package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/app/repositories"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/auth"
)

// AuthService signs students and admins in
type AuthService interface {
	StudentLogin(ctx context.Context, rollNumber string) (*models.Student, string, error)
	AdminLogin(ctx context.Context, username, password string) (*models.Admin, string, error)
	Profile(ctx context.Context, studentID int64) (*models.Student, error)
}

type authServiceImpl struct {
	studentRepo repositories.IStudentRepository
	adminRepo   repositories.IAdminRepository
	sessions    *auth.SessionService
	logger      zerolog.Logger
}

// NewAuthService creates an AuthService
func NewAuthService(
	studentRepo repositories.IStudentRepository,
	adminRepo repositories.IAdminRepository,
	sessions *auth.SessionService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		studentRepo: studentRepo,
		adminRepo:   adminRepo,
		sessions:    sessions,
		logger:      logger,
	}
}

// StudentLogin signs a student in by roll number and returns a session token
func (s *authServiceImpl) StudentLogin(ctx context.Context, rollNumber string) (*models.Student, string, error) {
	roll := strings.TrimSpace(rollNumber)
	if roll == "" {
		return nil, "", apperrors.NewValidationError("Roll number is required")
	}

	student, err := s.studentRepo.GetByRollNumber(ctx, roll)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			s.logger.Warn().Str("rollNumber", roll).Msg("Student login with unknown roll number")
			return nil, "", apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Roll number not found")
		}
		return nil, "", err
	}

	token, err := s.sessions.Issue(auth.Identity{ID: student.ID, Role: models.RoleStudent})
	if err != nil {
		return nil, "", fmt.Errorf("error issuing session: %w", err)
	}

	s.logger.Info().Int64("studentID", student.ID).Msg("Student logged in")
	return student, token, nil
}

// AdminLogin checks admin credentials and returns a session token
func (s *authServiceImpl) AdminLogin(ctx context.Context, username, password string) (*models.Admin, string, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			return nil, "", apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid credentials")
		}
		return nil, "", err
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		s.logger.Warn().Str("username", admin.Username).Msg("Admin login with wrong password")
		return nil, "", apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid credentials")
	}

	token, err := s.sessions.Issue(auth.Identity{ID: admin.ID, Role: models.RoleAdmin})
	if err != nil {
		return nil, "", fmt.Errorf("error issuing session: %w", err)
	}

	s.logger.Info().Int64("adminID", admin.ID).Msg("Admin logged in")
	return admin, token, nil
}

// Profile returns the current state of a student
func (s *authServiceImpl) Profile(ctx context.Context, studentID int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, studentID)
}
