package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/db"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/dberrors"
)

// IStudentRepository defines the interface for student-related database operations
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error)
	LockForUpdate(ctx context.Context, id int64) error

	// Roster
	AddRegisteredCourse(ctx context.Context, studentID, courseID int64) error
	RemoveRegisteredCourse(ctx context.Context, studentID, courseID int64) (bool, error)
	CountEnrolled(ctx context.Context, courseIDs []int64) (map[int64]int, error)
	ListByCourseIDs(ctx context.Context, courseIDs []int64) ([]*models.Student, error)

	// Prerequisite status
	SetPrerequisiteStatus(ctx context.Context, studentID, courseID int64, status models.PrerequisiteOutcome) error
	DeletePrerequisiteStatus(ctx context.Context, studentID, courseID int64) error
	ListWithOutstandingPrerequisites(ctx context.Context) ([]*models.Student, error)
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository on a pool or transaction
func NewStudentRepository(conn db.DBTX) *StudentRepository {
	return &StudentRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StudentRepository) selectStudentQuery() squirrel.SelectBuilder {
	return r.sb.Select("s.id", "s.roll_number", "s.username").From("students s")
}

// Create inserts a student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sqlStr, args, err := r.sb.Insert("students").
		Columns("roll_number", "username").
		Values(student.RollNumber, student.Username).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&student.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_roll_number_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

func (r *StudentRepository) queryStudents(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Student, error) {
	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.RollNumber, &s.Username); err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		s.RegisteredCourses = []int64{}
		s.PrerequisitesStatus = []models.PrerequisiteStatus{}
		students = append(students, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.hydrate(ctx, students); err != nil {
		return nil, err
	}
	return students, nil
}

// hydrate loads the roster and status records of every student
func (r *StudentRepository) hydrate(ctx context.Context, students []*models.Student) error {
	if len(students) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Student, len(students))
	ids := make([]int64, 0, len(students))
	for _, s := range students {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	sqlStr, args, err := r.sb.Select("student_id", "course_id").
		From("student_courses").
		Where(squirrel.Eq{"student_id": ids}).
		OrderBy("registered_at", "course_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build roster query: %w", err)
	}
	if err := r.eachPair(ctx, sqlStr, args, func(studentID, courseID int64) {
		if s, ok := byID[studentID]; ok {
			s.RegisteredCourses = append(s.RegisteredCourses, courseID)
		}
	}); err != nil {
		return fmt.Errorf("error loading roster: %w", err)
	}

	sqlStr, args, err = r.sb.Select("student_id", "course_id", "status").
		From("student_prerequisite_status").
		Where(squirrel.Eq{"student_id": ids}).
		OrderBy("student_id", "course_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build status query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("error loading prerequisite status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			studentID int64
			ps        models.PrerequisiteStatus
		)
		if err := rows.Scan(&studentID, &ps.CourseID, &ps.Status); err != nil {
			return fmt.Errorf("error scanning prerequisite status: %w", err)
		}
		if s, ok := byID[studentID]; ok {
			s.PrerequisitesStatus = append(s.PrerequisitesStatus, ps)
		}
	}
	return rows.Err()
}

func (r *StudentRepository) eachPair(ctx context.Context, sqlStr string, args []interface{}, fn func(a, b int64)) error {
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a, b int64
		if err := rows.Scan(&a, &b); err != nil {
			return err
		}
		fn(a, b)
	}
	return rows.Err()
}

func (r *StudentRepository) getOne(ctx context.Context, builder squirrel.SelectBuilder) (*models.Student, error) {
	students, err := r.queryStudents(ctx, builder)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, apperrors.ErrStudentNotFound
	}
	return students[0], nil
}

// GetByID retrieves a student with roster and prerequisite status
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, r.selectStudentQuery().Where(squirrel.Eq{"s.id": id}))
}

// GetByRollNumber retrieves a student by roll number
func (r *StudentRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error) {
	return r.getOne(ctx, r.selectStudentQuery().Where(squirrel.Eq{"s.roll_number": rollNumber}))
}

// LockForUpdate takes a row lock on the student until the surrounding
// transaction ends. Outside a transaction the lock is released immediately.
func (r *StudentRepository) LockForUpdate(ctx context.Context, id int64) error {
	sqlStr, args, err := r.sb.Select("id").
		From("students").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build lock student query: %w", err)
	}

	var locked int64
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error locking student: %w", err)
	}
	return nil
}

// AddRegisteredCourse adds a course to the roster; adding twice is a no-op
func (r *StudentRepository) AddRegisteredCourse(ctx context.Context, studentID, courseID int64) error {
	sqlStr, args, err := r.sb.Insert("student_courses").
		Columns("student_id", "course_id").
		Values(studentID, courseID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add registration query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("error adding registration: %w", err)
	}
	return nil
}

// RemoveRegisteredCourse removes a course from the roster, reporting whether it was there
func (r *StudentRepository) RemoveRegisteredCourse(ctx context.Context, studentID, courseID int64) (bool, error) {
	sqlStr, args, err := r.sb.Delete("student_courses").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build remove registration query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, fmt.Errorf("error removing registration: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// CountEnrolled counts registered students per course
func (r *StudentRepository) CountEnrolled(ctx context.Context, courseIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	sqlStr, args, err := r.sb.Select("course_id", "COUNT(*)").
		From("student_courses").
		Where(squirrel.Eq{"course_id": courseIDs}).
		GroupBy("course_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enrolled count query: %w", err)
	}

	if err := r.eachPair(ctx, sqlStr, args, func(courseID, n int64) {
		counts[courseID] = int(n)
	}); err != nil {
		return nil, fmt.Errorf("error counting enrollments: %w", err)
	}
	return counts, nil
}

// ListByCourseIDs returns students registered in any of the courses
func (r *StudentRepository) ListByCourseIDs(ctx context.Context, courseIDs []int64) ([]*models.Student, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	sub := r.sb.Select("1").
		From("student_courses sc").
		Where("sc.student_id = s.id").
		Where(squirrel.Eq{"sc.course_id": courseIDs}).
		Prefix("EXISTS (").
		Suffix(")")
	return r.queryStudents(ctx, r.selectStudentQuery().Where(sub).OrderBy("s.id"))
}

// SetPrerequisiteStatus upserts the status record for (student, course)
func (r *StudentRepository) SetPrerequisiteStatus(ctx context.Context, studentID, courseID int64, status models.PrerequisiteOutcome) error {
	sqlStr, args, err := r.sb.Insert("student_prerequisite_status").
		Columns("student_id", "course_id", "status").
		Values(studentID, courseID, string(status)).
		Suffix("ON CONFLICT (student_id, course_id) DO UPDATE SET status = EXCLUDED.status").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set status query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("error setting prerequisite status: %w", err)
	}
	return nil
}

// DeletePrerequisiteStatus removes the status record for (student, course), if any
func (r *StudentRepository) DeletePrerequisiteStatus(ctx context.Context, studentID, courseID int64) error {
	sqlStr, args, err := r.sb.Delete("student_prerequisite_status").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete status query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("error deleting prerequisite status: %w", err)
	}
	return nil
}

// ListWithOutstandingPrerequisites returns students holding any non-pass status record
func (r *StudentRepository) ListWithOutstandingPrerequisites(ctx context.Context) ([]*models.Student, error) {
	sub := r.sb.Select("1").
		From("student_prerequisite_status ps").
		Where("ps.student_id = s.id").
		Where(squirrel.NotEq{"ps.status": string(models.OutcomePass)}).
		Prefix("EXISTS (").
		Suffix(")")
	return r.queryStudents(ctx, r.selectStudentQuery().Where(sub).OrderBy("s.id"))
}
