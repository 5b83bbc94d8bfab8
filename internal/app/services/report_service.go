package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/app/repositories"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
)

// StudentCourses is a student with the courses on their roster
type StudentCourses struct {
	Student *models.Student
	Courses []EnrolledCourse
}

// ReportService answers the admin reporting queries
type ReportService interface {
	AvailableCourses(ctx context.Context) ([]EnrolledCourse, error)
	OutstandingPrerequisites(ctx context.Context) ([]*models.Student, error)
	CourseStudents(ctx context.Context, courseName string) ([]*models.Student, error)
	StudentCourses(ctx context.Context, rollNumber string) (*StudentCourses, error)
}

type reportServiceImpl struct {
	courseRepo  repositories.ICourseRepository
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewReportService creates a ReportService
func NewReportService(
	courseRepo repositories.ICourseRepository,
	studentRepo repositories.IStudentRepository,
	logger zerolog.Logger,
) ReportService {
	return &reportServiceImpl{
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// AvailableCourses returns courses where seatCount - enrolledCount > 0
func (s *reportServiceImpl) AvailableCourses(ctx context.Context) ([]EnrolledCourse, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	all, err := withEnrollment(ctx, s.courseRepo, s.studentRepo, courses)
	if err != nil {
		return nil, err
	}

	out := make([]EnrolledCourse, 0, len(all))
	for _, c := range all {
		if c.Course.SeatCount-c.EnrolledCount > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

// OutstandingPrerequisites returns students holding at least one non-pass record
func (s *reportServiceImpl) OutstandingPrerequisites(ctx context.Context) ([]*models.Student, error) {
	students, err := s.studentRepo.ListWithOutstandingPrerequisites(ctx)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []*models.Student{}
	}
	return students, nil
}

// CourseStudents returns students registered in any course whose name
// contains courseName, ignoring case
func (s *reportServiceImpl) CourseStudents(ctx context.Context, courseName string) ([]*models.Student, error) {
	fragment := strings.TrimSpace(courseName)
	if fragment == "" {
		return nil, apperrors.NewValidationError("courseName is required")
	}

	courses, err := s.courseRepo.FindByNameLike(ctx, fragment)
	if err != nil {
		return nil, err
	}
	students, err := s.studentRepo.ListByCourseIDs(ctx, courseIDs(courses))
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []*models.Student{}
	}

	s.logger.Debug().Str("courseName", fragment).Int("courses", len(courses)).Int("students", len(students)).Msg("Course students report")
	return students, nil
}

// StudentCourses returns a student's roster looked up by roll number
func (s *reportServiceImpl) StudentCourses(ctx context.Context, rollNumber string) (*StudentCourses, error) {
	roll := strings.TrimSpace(rollNumber)
	if roll == "" {
		return nil, apperrors.NewValidationError("rollNumber is required")
	}

	student, err := s.studentRepo.GetByRollNumber(ctx, roll)
	if err != nil {
		return nil, err
	}
	courses, err := s.courseRepo.GetByIDs(ctx, student.RegisteredCourses)
	if err != nil {
		return nil, err
	}
	enrolled, err := withEnrollment(ctx, s.courseRepo, s.studentRepo, courses)
	if err != nil {
		return nil, err
	}
	return &StudentCourses{Student: student, Courses: enrolled}, nil
}
