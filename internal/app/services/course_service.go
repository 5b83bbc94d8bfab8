package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/app/prereq"
	"github.com/yigit/courseregistry/internal/app/repositories"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/helpers"
)

// CourseInput carries the writable catalog fields of a course. Prerequisites
// are referenced by course name.
type CourseInput struct {
	CourseCode    *string
	CourseName    string
	Department    string
	SeatCount     int
	Slot          SlotInput
	Prerequisites []string
}

// CourseUpdate carries an admin edit. Nil fields keep their stored value; a
// non-nil empty CourseCode clears the code and a non-nil empty Prerequisites
// removes every link.
type CourseUpdate struct {
	CourseCode    *string
	CourseName    *string
	Department    *string
	SeatCount     *int
	Prerequisites []string
}

// CourseService manages the course catalog
type CourseService interface {
	ListCourses(ctx context.Context) ([]*models.Course, error)
	CourseSummaries(ctx context.Context) ([]models.CourseSummary, error)
	Departments(ctx context.Context) ([]string, error)
	CreateCourse(ctx context.Context, input CourseInput) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	PrerequisiteChain(ctx context.Context, courseID int64) ([]models.CourseSummary, error)
	StudentCourses(ctx context.Context, studentID int64) ([]*models.Course, error)

	ListWithEnrollment(ctx context.Context, page *helpers.PageRequest) ([]EnrolledCourse, int64, error)
	CreateCatalogCourse(ctx context.Context, input CourseInput) (*models.Course, error)
	UpdateCatalogCourse(ctx context.Context, id int64, input CourseUpdate) (*models.Course, error)
}

type courseServiceImpl struct {
	txManager     repositories.TxManager
	courseRepo    repositories.ICourseRepository
	studentRepo   repositories.IStudentRepository
	notifications NotificationService
	logger        zerolog.Logger
}

// NewCourseService creates a CourseService
func NewCourseService(
	txManager repositories.TxManager,
	courseRepo repositories.ICourseRepository,
	studentRepo repositories.IStudentRepository,
	notifications NotificationService,
	logger zerolog.Logger,
) CourseService {
	return &courseServiceImpl{
		txManager:     txManager,
		courseRepo:    courseRepo,
		studentRepo:   studentRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// ListCourses returns every course
func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAll(ctx)
}

// CourseSummaries returns the id/name/code of every course
func (s *courseServiceImpl) CourseSummaries(ctx context.Context) ([]models.CourseSummary, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.CourseSummary, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Summary())
	}
	return out, nil
}

// Departments returns the distinct non-empty department names
func (s *courseServiceImpl) Departments(ctx context.Context) ([]string, error) {
	return s.courseRepo.ListDepartments(ctx)
}

// CreateCourse creates a course with no seats and an optional slot
func (s *courseServiceImpl) CreateCourse(ctx context.Context, input CourseInput) (*models.Course, error) {
	name := strings.TrimSpace(input.CourseName)
	if name == "" {
		return nil, apperrors.NewValidationError("courseName is required")
	}

	course := &models.Course{
		CourseName:    name,
		Prerequisites: []int64{},
	}
	if !input.Slot.IsEmpty() {
		slot, _, err := parseSlot(input.Slot)
		if err != nil {
			return nil, err
		}
		course.Schedule = slot
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repositories.TxRepositories) error {
		return repos.Courses.Create(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", course.ID).Str("courseName", course.CourseName).Msg("Course created")
	return course, nil
}

// DeleteCourse removes a course. Registrations referencing it are left behind.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// PrerequisiteChain returns every transitive prerequisite of a course
func (s *courseServiceImpl) PrerequisiteChain(ctx context.Context, courseID int64) ([]models.CourseSummary, error) {
	chain, err := prereq.ResolveChain(ctx, s.courseRepo, courseID)
	if err != nil {
		return nil, err
	}
	if chain == nil {
		chain = []models.CourseSummary{}
	}
	return chain, nil
}

// StudentCourses returns the courses on a student's roster that still exist
func (s *courseServiceImpl) StudentCourses(ctx context.Context, studentID int64) ([]*models.Course, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	courses, err := s.courseRepo.GetByIDs(ctx, student.RegisteredCourses)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []*models.Course{}
	}
	return courses, nil
}

// ListWithEnrollment returns courses with enrollment counts and prerequisite
// names. A nil page returns the whole catalog.
func (s *courseServiceImpl) ListWithEnrollment(ctx context.Context, page *helpers.PageRequest) ([]EnrolledCourse, int64, error) {
	var (
		courses []*models.Course
		total   int64
		err     error
	)
	if page != nil {
		courses, total, err = s.courseRepo.List(ctx, page.Limit(), page.Offset())
	} else {
		courses, err = s.courseRepo.GetAll(ctx)
		total = int64(len(courses))
	}
	if err != nil {
		return nil, 0, err
	}

	enrolled, err := withEnrollment(ctx, s.courseRepo, s.studentRepo, courses)
	if err != nil {
		return nil, 0, err
	}
	return enrolled, total, nil
}

// withEnrollment attaches enrolled counts and prerequisite summaries
func withEnrollment(
	ctx context.Context,
	courseRepo repositories.ICourseRepository,
	studentRepo repositories.IStudentRepository,
	courses []*models.Course,
) ([]EnrolledCourse, error) {
	counts, err := studentRepo.CountEnrolled(ctx, courseIDs(courses))
	if err != nil {
		return nil, err
	}

	var prereqIDs []int64
	seen := make(map[int64]struct{})
	for _, c := range courses {
		for _, p := range c.Prerequisites {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				prereqIDs = append(prereqIDs, p)
			}
		}
	}
	prereqCourses, err := courseRepo.GetByIDs(ctx, prereqIDs)
	if err != nil {
		return nil, err
	}
	summaries := summariesByID(prereqCourses)

	out := make([]EnrolledCourse, 0, len(courses))
	for _, c := range courses {
		entry := EnrolledCourse{Course: c, EnrolledCount: counts[c.ID]}
		for _, p := range c.Prerequisites {
			if sum, ok := summaries[p]; ok {
				entry.PrerequisiteCourses = append(entry.PrerequisiteCourses, sum)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// resolvePrerequisiteNames maps names to course IDs, keeping input order.
// Unknown names are skipped.
func (s *courseServiceImpl) resolvePrerequisiteNames(ctx context.Context, repo repositories.ICourseRepository, names []string) ([]int64, error) {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if len(cleaned) == 0 {
		return []int64{}, nil
	}

	found, err := repo.GetByNames(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int64, len(found))
	for _, c := range found {
		byName[c.CourseName] = c.ID
	}

	ids := make([]int64, 0, len(cleaned))
	seen := make(map[int64]struct{}, len(cleaned))
	for _, n := range cleaned {
		id, ok := byName[n]
		if !ok {
			s.logger.Warn().Str("prerequisite", n).Msg("Unknown prerequisite course name, skipping")
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func normalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// CreateCatalogCourse creates a course from the admin catalog form
func (s *courseServiceImpl) CreateCatalogCourse(ctx context.Context, input CourseInput) (*models.Course, error) {
	code := normalizeCode(input.CourseCode)
	if code == nil {
		return nil, apperrors.NewValidationError("courseCode is required")
	}
	name := strings.TrimSpace(input.CourseName)
	if name == "" {
		return nil, apperrors.NewValidationError("courseName is required")
	}
	if input.SeatCount < 0 {
		return nil, apperrors.NewValidationError("seatCount cannot be negative")
	}

	course := &models.Course{
		CourseCode: code,
		CourseName: name,
		Department: strings.TrimSpace(input.Department),
		SeatCount:  input.SeatCount,
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repositories.TxRepositories) error {
		ids, err := s.resolvePrerequisiteNames(ctx, repos.Courses, input.Prerequisites)
		if err != nil {
			return err
		}
		course.Prerequisites = ids
		return repos.Courses.Create(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", course.ID).Str("courseCode", *code).Msg("Catalog course created")
	return course, nil
}

// UpdateCatalogCourse applies the fields set in input. The schedule slot is
// kept unless the edit reopens a full course: going from 0 seats to more
// clears the slot and drains the subscribers, who are notified after commit.
func (s *courseServiceImpl) UpdateCatalogCourse(ctx context.Context, id int64, input CourseUpdate) (*models.Course, error) {
	var name string
	if input.CourseName != nil {
		name = strings.TrimSpace(*input.CourseName)
		if name == "" {
			return nil, apperrors.NewValidationError("courseName cannot be empty")
		}
	}
	if input.SeatCount != nil && *input.SeatCount < 0 {
		return nil, apperrors.NewValidationError("seatCount cannot be negative")
	}

	var course *models.Course
	var releases []SeatRelease
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repositories.TxRepositories) error {
		var err error
		course, err = repos.Courses.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if input.Prerequisites != nil {
			ids, err := s.resolvePrerequisiteNames(ctx, repos.Courses, input.Prerequisites)
			if err != nil {
				return err
			}
			course.Prerequisites = ids
		}

		reopened := false
		if input.CourseCode != nil {
			course.CourseCode = normalizeCode(input.CourseCode)
		}
		if input.CourseName != nil {
			course.CourseName = name
		}
		if input.Department != nil {
			course.Department = strings.TrimSpace(*input.Department)
		}
		if input.SeatCount != nil {
			reopened = course.SeatCount == 0 && *input.SeatCount > 0
			course.SeatCount = *input.SeatCount
		}
		if err := repos.Courses.Update(ctx, course); err != nil {
			return err
		}
		if !reopened {
			return nil
		}

		if err := repos.Courses.UpdateSchedule(ctx, id, nil); err != nil {
			return fmt.Errorf("error clearing schedule: %w", err)
		}
		subscribers, err := repos.Courses.PopSubscribers(ctx, id)
		if err != nil {
			return fmt.Errorf("error clearing subscribers: %w", err)
		}
		course.Schedule = nil
		course.Subscribers = nil
		releases = append(releases, SeatRelease{
			CourseID:    course.ID,
			CourseName:  course.CourseName,
			SeatCount:   course.SeatCount,
			Subscribers: subscribers,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", id).Bool("reopened", len(releases) > 0).Msg("Catalog course updated")
	if len(releases) > 0 && s.notifications != nil {
		s.notifications.AnnounceSeats(ctx, releases)
	}
	return course, nil
}
