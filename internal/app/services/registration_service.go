package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/app/repositories"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/metrics"
)

// RegistrationResult is the outcome of a successful registration
type RegistrationResult struct {
	Course            *models.Course
	AlreadyRegistered bool
	// Completed lists every passed direct prerequisite of the course, whether
	// or not it was on the roster. Only those on the roster were dropped.
	Completed []int64
}

// LeveledUp reports whether the student had passed any direct prerequisite
func (r *RegistrationResult) LeveledUp() bool {
	return len(r.Completed) > 0
}

// RegistrationService moves students between unregistered and registered
type RegistrationService interface {
	Register(ctx context.Context, studentID, courseID int64) (*RegistrationResult, error)
	Drop(ctx context.Context, studentID, courseID int64) (*models.Course, error)
	AdminDrop(ctx context.Context, studentID, courseID int64) (*models.Course, error)
	Subscribe(ctx context.Context, studentID, courseID int64) error
}

type registrationServiceImpl struct {
	txManager     repositories.TxManager
	courseRepo    repositories.ICourseRepository
	notifications NotificationService
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewRegistrationService creates a RegistrationService
func NewRegistrationService(
	txManager repositories.TxManager,
	courseRepo repositories.ICourseRepository,
	notifications NotificationService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) RegistrationService {
	return &registrationServiceImpl{
		txManager:     txManager,
		courseRepo:    courseRepo,
		notifications: notifications,
		metrics:       m,
		logger:        logger,
	}
}

func prerequisitesNotMetError(unmet []int64) error {
	return apperrors.NewCustomError(apperrors.ErrPrerequisitesNotMet, "You must complete prerequisites first.").
		WithDetails(map[string]interface{}{"unmetPrerequisites": unmet})
}

func courseNotRegisteredError() error {
	return apperrors.NewCustomError(apperrors.ErrCourseNotRegistered, "Course not registered. Please register first.")
}

// partitionPrerequisites splits the direct prerequisites of a course into the
// ones the student has passed and the ones that are neither passed nor registered.
func partitionPrerequisites(student *models.Student, course *models.Course) (passed, unmet []int64) {
	for _, p := range course.Prerequisites {
		switch {
		case student.HasPassed(p):
			passed = append(passed, p)
		case !student.IsRegistered(p):
			unmet = append(unmet, p)
		}
	}
	return passed, unmet
}

// Register enrolls a student in a course. Passed prerequisites the student is
// still registered in are dropped and their seats refunded.
func (s *registrationServiceImpl) Register(ctx context.Context, studentID, courseID int64) (*RegistrationResult, error) {
	var (
		result   *RegistrationResult
		releases []SeatRelease
	)

	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repositories.TxRepositories) error {
		releases = nil

		course, err := repos.Courses.GetByID(ctx, courseID)
		if err != nil {
			return err
		}
		if err := repos.Students.LockForUpdate(ctx, studentID); err != nil {
			return err
		}
		student, err := repos.Students.GetByID(ctx, studentID)
		if err != nil {
			return err
		}

		if student.IsRegistered(courseID) {
			result = &RegistrationResult{Course: course, AlreadyRegistered: true}
			return nil
		}

		passed, unmet := partitionPrerequisites(student, course)
		if len(unmet) > 0 {
			return prerequisitesNotMetError(unmet)
		}

		if err := ReserveSeat(ctx, repos.Courses, course); err != nil {
			return err
		}

		if len(passed) > 0 {
			prereqCourses, err := repos.Courses.GetByIDs(ctx, passed)
			if err != nil {
				return fmt.Errorf("error loading passed prerequisites: %w", err)
			}
			byID := make(map[int64]*models.Course, len(prereqCourses))
			for _, c := range prereqCourses {
				byID[c.ID] = c
			}

			for _, p := range passed {
				removed, err := repos.Students.RemoveRegisteredCourse(ctx, studentID, p)
				if err != nil {
					return err
				}
				prereq, exists := byID[p]
				if !removed || !exists {
					continue
				}
				release, err := ReleaseSeat(ctx, repos.Courses, prereq)
				if err != nil {
					return err
				}
				releases = append(releases, release)
			}
		}

		if err := repos.Students.AddRegisteredCourse(ctx, studentID, courseID); err != nil {
			return err
		}

		course, err = repos.Courses.GetByID(ctx, courseID)
		if err != nil {
			return err
		}
		result = &RegistrationResult{Course: course, Completed: passed}
		return nil
	})

	s.observeRegistration(result, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Bool("alreadyRegistered", result.AlreadyRegistered).
		Int("completedPrerequisites", len(result.Completed)).
		Msg("Course registration processed")

	s.notifications.AnnounceSeats(ctx, releases)
	return result, nil
}

func (s *registrationServiceImpl) observeRegistration(result *RegistrationResult, err error) {
	switch {
	case err == nil && result.AlreadyRegistered:
		s.metrics.ObserveRegistration(metrics.OutcomeAlreadyRegistered)
	case err == nil:
		s.metrics.ObserveRegistration(metrics.OutcomeRegistered)
	case errors.Is(err, apperrors.ErrNoSeatsAvailable):
		s.metrics.ObserveRegistration(metrics.OutcomeNoSeats)
	case errors.Is(err, apperrors.ErrPrerequisitesNotMet):
		s.metrics.ObserveRegistration(metrics.OutcomePrerequisitesNotMet)
	default:
		s.metrics.ObserveRegistration(metrics.OutcomeError)
	}
}

// Drop unregisters the signed-in student from a course
func (s *registrationServiceImpl) Drop(ctx context.Context, studentID, courseID int64) (*models.Course, error) {
	return s.drop(ctx, studentID, courseID, ActorStudent)
}

// AdminDrop unregisters any student from a course
func (s *registrationServiceImpl) AdminDrop(ctx context.Context, studentID, courseID int64) (*models.Course, error) {
	return s.drop(ctx, studentID, courseID, ActorAdmin)
}

func (s *registrationServiceImpl) drop(ctx context.Context, studentID, courseID int64, actor string) (*models.Course, error) {
	var (
		course  *models.Course
		release SeatRelease
	)

	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repositories.TxRepositories) error {
		var err error
		course, err = repos.Courses.GetByID(ctx, courseID)
		if err != nil {
			return err
		}
		if err := repos.Students.LockForUpdate(ctx, studentID); err != nil {
			return err
		}

		removed, err := repos.Students.RemoveRegisteredCourse(ctx, studentID, courseID)
		if err != nil {
			return err
		}
		if !removed {
			return courseNotRegisteredError()
		}

		release, err = ReleaseSeat(ctx, repos.Courses, course)
		if err != nil {
			return err
		}

		return repos.Students.DeletePrerequisiteStatus(ctx, studentID, courseID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveDrop(actor)
	s.logger.Info().
		Str("actor", actor).
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Int("seatCount", release.SeatCount).
		Msg("Course dropped")

	s.notifications.AnnounceSeats(ctx, []SeatRelease{release})
	return course, nil
}

// Subscribe adds the student to the course's seat-available waiting list
func (s *registrationServiceImpl) Subscribe(ctx context.Context, studentID, courseID int64) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}
	if err := s.courseRepo.AddSubscriber(ctx, courseID, studentID); err != nil {
		return err
	}

	s.logger.Debug().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Subscribed to seat notices")
	return nil
}
