package services

import (
	"context"
	"fmt"

	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/app/repositories"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
)

// SeatRelease describes a seat handed back to a course and who was waiting for it
type SeatRelease struct {
	CourseID    int64
	CourseName  string
	SeatCount   int
	Subscribers []int64
}

func noSeatsError() error {
	return apperrors.NewCustomError(apperrors.ErrNoSeatsAvailable,
		"No seats available. Consider subscribing for notifications.")
}

// ReserveSeat takes one seat from the course. The decrement only applies while
// seat_count > 0, so two callers racing for the last seat cannot both win.
func ReserveSeat(ctx context.Context, courses repositories.ICourseRepository, course *models.Course) error {
	if course.IsFull() {
		return noSeatsError()
	}

	ok, err := courses.DecrementSeat(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("error reserving seat: %w", err)
	}
	if !ok {
		return noSeatsError()
	}
	course.SeatCount--
	return nil
}

// ReleaseSeat returns one seat to the course. The course loses its schedule
// slot and its subscriber set is emptied; the drained subscribers are returned
// so they can be notified once the surrounding transaction commits.
func ReleaseSeat(ctx context.Context, courses repositories.ICourseRepository, course *models.Course) (SeatRelease, error) {
	seats, err := courses.IncrementSeat(ctx, course.ID)
	if err != nil {
		return SeatRelease{}, fmt.Errorf("error releasing seat: %w", err)
	}

	subscribers, err := courses.PopSubscribers(ctx, course.ID)
	if err != nil {
		return SeatRelease{}, fmt.Errorf("error clearing subscribers: %w", err)
	}

	course.SeatCount = seats
	course.Schedule = nil
	course.Subscribers = nil

	return SeatRelease{
		CourseID:    course.ID,
		CourseName:  course.CourseName,
		SeatCount:   seats,
		Subscribers: subscribers,
	}, nil
}
