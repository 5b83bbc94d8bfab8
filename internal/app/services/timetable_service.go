package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/app/repositories"
	"github.com/yigit/courseregistry/internal/app/timetable"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/helpers"
	"github.com/yigit/courseregistry/internal/pkg/metrics"
)

// SlotInput is an unvalidated weekly slot as received from a client
type SlotInput struct {
	Day       string
	StartTime string
	EndTime   string
}

// IsEmpty reports whether no slot field was given
func (in SlotInput) IsEmpty() bool {
	return in.Day == "" && in.StartTime == "" && in.EndTime == ""
}

// parseSlot validates a slot and normalizes it to canonical day and HH:MM form
func parseSlot(in SlotInput) (*models.ScheduleSlot, timetable.Event, error) {
	if in.Day == "" || in.StartTime == "" || in.EndTime == "" {
		return nil, timetable.Event{}, apperrors.NewValidationError("day, startTime and endTime must be provided together")
	}

	day, err := models.ParseDay(in.Day)
	if err != nil {
		return nil, timetable.Event{}, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}
	start, err := helpers.ToMinutes(in.StartTime)
	if err != nil {
		return nil, timetable.Event{}, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}
	end, err := helpers.ToMinutes(in.EndTime)
	if err != nil {
		return nil, timetable.Event{}, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}
	if start >= end {
		return nil, timetable.Event{}, apperrors.NewValidationError("startTime must be before endTime")
	}

	slot := &models.ScheduleSlot{
		Day:       day,
		StartTime: helpers.FromMinutes(start),
		EndTime:   helpers.FromMinutes(end),
	}
	return slot, timetable.Event{Day: day, Start: start, End: end}, nil
}

// TimetableEntry is one registered course on the weekly calendar
type TimetableEntry struct {
	Course   *models.Course
	Conflict bool
}

// TimetableService edits and renders a student's weekly timetable
type TimetableService interface {
	UpdateTimetable(ctx context.Context, studentID, courseID int64, slot SlotInput) (*models.Course, error)
	Timetable(ctx context.Context, studentID int64) ([]TimetableEntry, error)
}

type timetableServiceImpl struct {
	txManager   repositories.TxManager
	courseRepo  repositories.ICourseRepository
	studentRepo repositories.IStudentRepository
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewTimetableService creates a TimetableService
func NewTimetableService(
	txManager repositories.TxManager,
	courseRepo repositories.ICourseRepository,
	studentRepo repositories.IStudentRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) TimetableService {
	return &timetableServiceImpl{
		txManager:   txManager,
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
		metrics:     m,
		logger:      logger,
	}
}

// UpdateTimetable moves a registered course to a new weekly slot. The slot
// lives on the course, so every registrant sees the change.
func (s *timetableServiceImpl) UpdateTimetable(ctx context.Context, studentID, courseID int64, in SlotInput) (*models.Course, error) {
	slot, candidate, err := parseSlot(in)
	if err != nil {
		s.metrics.ObserveTimetableUpdate("invalid")
		return nil, err
	}

	var course *models.Course
	err = s.txManager.WithTx(ctx, func(ctx context.Context, repos repositories.TxRepositories) error {
		var err error
		course, err = repos.Courses.GetByID(ctx, courseID)
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
		if !student.IsRegistered(courseID) {
			return courseNotRegisteredError()
		}

		others := make([]int64, 0, len(student.RegisteredCourses))
		for _, id := range student.RegisteredCourses {
			if id != courseID {
				others = append(others, id)
			}
		}
		registered, err := repos.Courses.GetByIDs(ctx, others)
		if err != nil {
			return err
		}
		existing, err := timetable.EventsFromCourses(registered)
		if err != nil {
			return fmt.Errorf("error reading registered schedules: %w", err)
		}

		if timetable.HasConflict(candidate.Day, candidate.Start, candidate.End, existing) {
			return apperrors.NewCustomError(apperrors.ErrScheduleConflict,
				"Conflict detected with another course. Timetable not updated.")
		}

		if err := repos.Courses.UpdateSchedule(ctx, courseID, slot); err != nil {
			return err
		}
		course.Schedule = slot
		return nil
	})

	switch {
	case err == nil:
		s.metrics.ObserveTimetableUpdate("updated")
	case errors.Is(err, apperrors.ErrScheduleConflict):
		s.metrics.ObserveTimetableUpdate("conflict")
	default:
		s.metrics.ObserveTimetableUpdate("error")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Str("day", string(slot.Day)).
		Str("start", slot.StartTime).
		Str("end", slot.EndTime).
		Msg("Timetable updated")
	return course, nil
}

// Timetable lists the student's registered courses and flags overlapping ones
func (s *timetableServiceImpl) Timetable(ctx context.Context, studentID int64) ([]TimetableEntry, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	courses, err := s.courseRepo.GetByIDs(ctx, student.RegisteredCourses)
	if err != nil {
		return nil, err
	}

	var events []timetable.Event
	for _, c := range courses {
		ev, ok, err := timetable.EventFromCourse(c)
		if err != nil {
			s.logger.Warn().Err(err).Int64("courseID", c.ID).Msg("Skipping course with unreadable schedule")
			continue
		}
		if ok {
			events = append(events, ev)
		}
	}
	conflicts := timetable.FindConflicts(events)

	entries := make([]TimetableEntry, 0, len(courses))
	for _, c := range courses {
		_, conflict := conflicts[c.ID]
		entries = append(entries, TimetableEntry{Course: c, Conflict: conflict})
	}
	return entries, nil
}
