package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/app/repositories"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
)

// PrerequisiteService records pass/fail outcomes for students
type PrerequisiteService interface {
	SetStatus(ctx context.Context, studentID, courseID int64, status string) error
	AdminSetStatus(ctx context.Context, studentID, courseID int64, status string) error
}

type prerequisiteServiceImpl struct {
	courseRepo  repositories.ICourseRepository
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewPrerequisiteService creates a PrerequisiteService
func NewPrerequisiteService(
	courseRepo repositories.ICourseRepository,
	studentRepo repositories.IStudentRepository,
	logger zerolog.Logger,
) PrerequisiteService {
	return &prerequisiteServiceImpl{
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// SetStatus records an outcome for a course the student is registered in
func (s *prerequisiteServiceImpl) SetStatus(ctx context.Context, studentID, courseID int64, status string) error {
	return s.setStatus(ctx, studentID, courseID, status, true)
}

// AdminSetStatus records an outcome for any existing student and course
func (s *prerequisiteServiceImpl) AdminSetStatus(ctx context.Context, studentID, courseID int64, status string) error {
	return s.setStatus(ctx, studentID, courseID, status, false)
}

func (s *prerequisiteServiceImpl) setStatus(ctx context.Context, studentID, courseID int64, status string, requireRegistration bool) error {
	outcome, err := models.ParseOutcome(status)
	if err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}

	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if requireRegistration && !student.IsRegistered(courseID) {
		return courseNotRegisteredError()
	}

	if err := s.studentRepo.SetPrerequisiteStatus(ctx, studentID, courseID, outcome); err != nil {
		return err
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Str("status", string(outcome)).
		Bool("self", requireRegistration).
		Msg("Prerequisite status updated")
	return nil
}
