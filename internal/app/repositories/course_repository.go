package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/db"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/dberrors"
	"github.com/yigit/courseregistry/internal/pkg/logger"
)

// ICourseRepository defines the interface for course-related database operations
type ICourseRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Course, error)
	GetByNames(ctx context.Context, names []string) ([]*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	List(ctx context.Context, limit, offset uint64) ([]*models.Course, int64, error)
	FindByNameLike(ctx context.Context, fragment string) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error

	// Seat ledger
	DecrementSeat(ctx context.Context, id int64) (bool, error)
	IncrementSeat(ctx context.Context, id int64) (int, error)

	// Timetable
	UpdateSchedule(ctx context.Context, id int64, slot *models.ScheduleSlot) error

	// Seat-available subscriptions
	AddSubscriber(ctx context.Context, courseID, studentID int64) error
	PopSubscribers(ctx context.Context, courseID int64) ([]int64, error)

	ListDepartments(ctx context.Context) ([]string, error)
}

const (
	courseNameConstraint = "courses_course_name_key"
	courseCodeConstraint = "courses_course_code_key"
	seatCountConstraint  = "courses_seat_count_check"
)

// CourseRepository handles course database operations
type CourseRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository on a pool or transaction
func NewCourseRepository(conn db.DBTX) *CourseRepository {
	return &CourseRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *CourseRepository) selectCourseQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.course_code", "c.course_name", "c.department", "c.seat_count",
		"c.day", "c.start_time", "c.end_time",
	).From("courses c")
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var (
		course                   models.Course
		dayCol, startCol, endCol *string
	)
	err := row.Scan(
		&course.ID, &course.CourseCode, &course.CourseName, &course.Department, &course.SeatCount,
		&dayCol, &startCol, &endCol,
	)
	if err != nil {
		return nil, err
	}
	if dayCol != nil && startCol != nil && endCol != nil {
		course.Schedule = &models.ScheduleSlot{Day: models.Day(*dayCol), StartTime: *startCol, EndTime: *endCol}
	}
	return &course, nil
}

// translateWriteError maps constraint violations to domain errors
func translateWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, courseNameConstraint):
		return apperrors.ErrDuplicateCourseName
	case dberrors.IsDuplicateConstraintError(err, courseCodeConstraint):
		return apperrors.ErrDuplicateCourseCode
	case dberrors.IsCheckViolation(err, seatCountConstraint):
		return apperrors.NewValidationError("seat count cannot be negative")
	}
	return err
}

func (r *CourseRepository) queryCourses(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Course, error) {
	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadPrerequisites(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// loadPrerequisites fills Prerequisites for every course with one query
func (r *CourseRepository) loadPrerequisites(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Course, len(courses))
	ids := make([]int64, 0, len(courses))
	for _, c := range courses {
		c.Prerequisites = []int64{}
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	sqlStr, args, err := r.sb.Select("course_id", "prerequisite_id").
		From("course_prerequisites").
		Where(squirrel.Eq{"course_id": ids}).
		OrderBy("course_id", "position", "prerequisite_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build prerequisite query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("error querying prerequisites: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID, prereqID int64
		if err := rows.Scan(&courseID, &prereqID); err != nil {
			return fmt.Errorf("error scanning prerequisite: %w", err)
		}
		if c, ok := byID[courseID]; ok {
			c.Prerequisites = append(c.Prerequisites, prereqID)
		}
	}
	return rows.Err()
}

// replacePrerequisites rewrites the prerequisite rows of a course in order
func (r *CourseRepository) replacePrerequisites(ctx context.Context, courseID int64, prereqs []int64) error {
	sqlStr, args, err := r.sb.Delete("course_prerequisites").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete prerequisites query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("error clearing prerequisites: %w", err)
	}
	if len(prereqs) == 0 {
		return nil
	}

	insert := r.sb.Insert("course_prerequisites").
		Columns("course_id", "prerequisite_id", "position").
		Suffix("ON CONFLICT DO NOTHING")
	for i, p := range prereqs {
		insert = insert.Values(courseID, p, i)
	}
	sqlStr, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert prerequisites query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("error inserting prerequisites: %w", err)
	}
	return nil
}

func slotColumns(slot *models.ScheduleSlot) (day, start, end interface{}) {
	if slot == nil {
		return nil, nil, nil
	}
	return string(slot.Day), slot.StartTime, slot.EndTime
}

// Create inserts a course and its prerequisite links
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	day, start, end := slotColumns(course.Schedule)
	sqlStr, args, err := r.sb.Insert("courses").
		Columns("course_code", "course_name", "department", "seat_count", "day", "start_time", "end_time").
		Values(course.CourseCode, course.CourseName, course.Department, course.SeatCount, day, start, end).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&course.ID); err != nil {
		if translated := translateWriteError(err); translated != err {
			logger.Warn().Str("courseName", course.CourseName).Err(err).Msg("Rejected course insert")
			return translated
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	if course.Prerequisites == nil {
		course.Prerequisites = []int64{}
	}
	return r.replacePrerequisites(ctx, course.ID, course.Prerequisites)
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	courses, err := r.queryCourses(ctx, r.selectCourseQuery().Where(squirrel.Eq{"c.id": id}))
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, apperrors.ErrCourseNotFound
	}
	return courses[0], nil
}

// GetByIDs retrieves the courses that exist among ids. Unknown IDs are skipped.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryCourses(ctx, r.selectCourseQuery().Where(squirrel.Eq{"c.id": ids}).OrderBy("c.id"))
}

// GetByNames retrieves courses whose name matches one of names exactly
func (r *CourseRepository) GetByNames(ctx context.Context, names []string) ([]*models.Course, error) {
	if len(names) == 0 {
		return nil, nil
	}
	return r.queryCourses(ctx, r.selectCourseQuery().Where(squirrel.Eq{"c.course_name": names}).OrderBy("c.id"))
}

// GetAll retrieves every course ordered by ID
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	return r.queryCourses(ctx, r.selectCourseQuery().OrderBy("c.id"))
}

// List retrieves one page of courses and the total count
func (r *CourseRepository) List(ctx context.Context, limit, offset uint64) ([]*models.Course, int64, error) {
	sqlStr, args, err := r.sb.Select("COUNT(*)").From("courses").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	courses, err := r.queryCourses(ctx, r.selectCourseQuery().OrderBy("c.id").Limit(limit).Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindByNameLike retrieves courses whose name contains fragment, ignoring case
func (r *CourseRepository) FindByNameLike(ctx context.Context, fragment string) ([]*models.Course, error) {
	pattern := "%" + likeEscaper.Replace(fragment) + "%"
	return r.queryCourses(ctx, r.selectCourseQuery().
		Where(squirrel.ILike{"c.course_name": pattern}).
		OrderBy("c.id"))
}

// Update writes the catalog fields and prerequisite links of a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sqlStr, args, err := r.sb.Update("courses").
		Set("course_code", course.CourseCode).
		Set("course_name", course.CourseName).
		Set("department", course.Department).
		Set("seat_count", course.SeatCount).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		if translated := translateWriteError(err); translated != err {
			return translated
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return r.replacePrerequisites(ctx, course.ID, course.Prerequisites)
}

// Delete removes a course. Student registrations that reference it are left
// in place.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := r.sb.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// DecrementSeat takes one seat if any remain. It reports false when the course
// is already full; the check and the decrement are a single statement.
func (r *CourseRepository) DecrementSeat(ctx context.Context, id int64) (bool, error) {
	sqlStr, args, err := r.sb.Update("courses").
		Set("seat_count", squirrel.Expr("seat_count - 1")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"seat_count": 0}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build decrement seat query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, fmt.Errorf("error decrementing seat: %w", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// IncrementSeat returns one seat to the course and clears its schedule slot,
// returning the new seat count.
func (r *CourseRepository) IncrementSeat(ctx context.Context, id int64) (int, error) {
	sqlStr, args, err := r.sb.Update("courses").
		Set("seat_count", squirrel.Expr("seat_count + 1")).
		Set("day", nil).
		Set("start_time", nil).
		Set("end_time", nil).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING seat_count").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build increment seat query: %w", err)
	}

	var seats int
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&seats); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrCourseNotFound
		}
		return 0, fmt.Errorf("error incrementing seat: %w", err)
	}
	return seats, nil
}

// UpdateSchedule sets or clears (nil slot) the course's weekly slot
func (r *CourseRepository) UpdateSchedule(ctx context.Context, id int64, slot *models.ScheduleSlot) error {
	day, start, end := slotColumns(slot)
	sqlStr, args, err := r.sb.Update("courses").
		Set("day", day).
		Set("start_time", start).
		Set("end_time", end).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update schedule query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// AddSubscriber records that a student waits for a seat on the course
func (r *CourseRepository) AddSubscriber(ctx context.Context, courseID, studentID int64) error {
	sqlStr, args, err := r.sb.Insert("course_subscribers").
		Columns("course_id", "student_id").
		Values(courseID, studentID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add subscriber query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("error adding subscriber: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadySubscribed
	}
	return nil
}

// PopSubscribers clears the subscriber set of a course and returns who was in it
func (r *CourseRepository) PopSubscribers(ctx context.Context, courseID int64) ([]int64, error) {
	sqlStr, args, err := r.sb.Delete("course_subscribers").
		Where(squirrel.Eq{"course_id": courseID}).
		Suffix("RETURNING student_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pop subscribers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error clearing subscribers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning subscriber: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListDepartments returns the distinct non-empty department names
func (r *CourseRepository) ListDepartments(ctx context.Context) ([]string, error) {
	sqlStr, args, err := r.sb.Select("DISTINCT department").
		From("courses").
		Where(squirrel.NotEq{"department": ""}).
		OrderBy("department").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build departments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying departments: %w", err)
	}
	defer rows.Close()

	departments := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("error scanning department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}
