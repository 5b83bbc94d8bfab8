package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/courseregistry/internal/app/models"
	appRepos "github.com/yigit/courseregistry/internal/app/repositories"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/auth"
)

// Options controls what CreateDefaultData writes
type Options struct {
	AdminUsername string
	AdminPassword string
	// PasswordCost overrides the bcrypt cost; zero uses the default
	PasswordCost int
}

type sampleCourse struct {
	code          string
	name          string
	department    string
	seats         int
	prerequisites []string
}

// Listed in dependency order so prerequisites exist before their dependents.
var sampleCourses = []sampleCourse{
	{code: "CS101", name: "Introduction to Programming", department: "Computer Science", seats: 30},
	{code: "MA101", name: "Discrete Mathematics", department: "Mathematics", seats: 40},
	{code: "CS201", name: "Data Structures", department: "Computer Science", seats: 25, prerequisites: []string{"Introduction to Programming"}},
	{code: "CS301", name: "Algorithms", department: "Computer Science", seats: 20, prerequisites: []string{"Data Structures", "Discrete Mathematics"}},
	{code: "CS310", name: "Databases", department: "Computer Science", seats: 2, prerequisites: []string{"Data Structures"}},
}

var sampleStudents = []appModels.Student{
	{RollNumber: "CS2024001", Username: "ada"},
	{RollNumber: "CS2024002", Username: "alan"},
	{RollNumber: "CS2024003", Username: "grace"},
}

// CreateDefaultData creates the admin account, sample courses and sample
// students if they don't exist. It keeps going after individual failures and
// returns them joined.
func CreateDefaultData(
	ctx context.Context,
	courseRepo appRepos.ICourseRepository,
	studentRepo appRepos.IStudentRepository,
	adminRepo appRepos.IAdminRepository,
	opts Options,
	lgr zerolog.Logger,
) error {
	lgr.Info().Msg("Checking/Creating default data (admin, courses, students)...")
	var finalErr error

	// --- Admin --- //
	if opts.AdminUsername != "" {
		finalErr = errors.Join(finalErr, createAdmin(ctx, adminRepo, opts, lgr))
	}

	// --- Courses --- //
	ids := make(map[string]int64, len(sampleCourses))
	for _, sc := range sampleCourses {
		id, err := createCourse(ctx, courseRepo, sc, ids)
		if err != nil {
			lgr.Error().Err(err).Str("course", sc.name).Msg("Error creating sample course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		ids[sc.name] = id
	}

	// --- Students --- //
	for _, s := range sampleStudents {
		student := s
		err := studentRepo.Create(ctx, &student)
		switch {
		case err == nil:
			lgr.Info().Str("rollNumber", student.RollNumber).Msg("Sample student created")
		case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		default:
			lgr.Error().Err(err).Str("rollNumber", student.RollNumber).Msg("Error creating sample student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createAdmin(ctx context.Context, adminRepo appRepos.IAdminRepository, opts Options, lgr zerolog.Logger) error {
	_, err := adminRepo.GetByUsername(ctx, opts.AdminUsername)
	if err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrAdminNotFound) {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	var hash string
	if opts.PasswordCost > 0 {
		hash, err = auth.HashPasswordCost(opts.AdminPassword, opts.PasswordCost)
	} else {
		hash, err = auth.HashPassword(opts.AdminPassword)
	}
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.Admin{Username: opts.AdminUsername, PasswordHash: hash}
	if err := adminRepo.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}
	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}

// createCourse inserts sc or returns the id of the existing course with its name
func createCourse(ctx context.Context, courseRepo appRepos.ICourseRepository, sc sampleCourse, ids map[string]int64) (int64, error) {
	code := sc.code
	course := &appModels.Course{
		CourseCode: &code,
		CourseName: sc.name,
		Department: sc.department,
		SeatCount:  sc.seats,
	}
	for _, name := range sc.prerequisites {
		if id, ok := ids[name]; ok {
			course.Prerequisites = append(course.Prerequisites, id)
		}
	}

	err := courseRepo.Create(ctx, course)
	if err == nil {
		return course.ID, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicateCourseName) && !errors.Is(err, apperrors.ErrDuplicateCourseCode) {
		return 0, err
	}

	existing, err := courseRepo.GetByNames(ctx, []string{sc.name})
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		// code taken by a differently named course
		return 0, apperrors.ErrDuplicateCourseCode
	}
	return existing[0].ID, nil
}
