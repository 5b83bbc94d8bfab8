// Package timetable detects overlapping course meetings within a week.
package timetable

import (
	"fmt"

	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/pkg/helpers"
)

// Event is one scheduled weekly meeting. Start and End are minutes since
// midnight and describe the half-open interval [Start, End).
type Event struct {
	ID    int64
	Day   models.Day
	Start int
	End   int
}

// Overlaps reports whether two intervals on the same day intersect.
// Touching boundaries do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// FindConflicts returns the IDs of every event that overlaps at least one
// other event on the same day.
func FindConflicts(events []Event) map[int64]struct{} {
	byDay := make(map[models.Day][]Event)
	for _, e := range events {
		byDay[e.Day] = append(byDay[e.Day], e)
	}

	conflicts := make(map[int64]struct{})
	for _, dayEvents := range byDay {
		for i := 0; i < len(dayEvents); i++ {
			for j := i + 1; j < len(dayEvents); j++ {
				a, b := dayEvents[i], dayEvents[j]
				if Overlaps(a.Start, a.End, b.Start, b.End) {
					conflicts[a.ID] = struct{}{}
					conflicts[b.ID] = struct{}{}
				}
			}
		}
	}
	return conflicts
}

// HasConflict reports whether the candidate interval overlaps any existing
// event on the same day.
func HasConflict(day models.Day, start, end int, existing []Event) bool {
	for _, e := range existing {
		if e.Day == day && Overlaps(start, end, e.Start, e.End) {
			return true
		}
	}
	return false
}

// EventFromCourse converts a course's schedule slot into an Event. ok is false
// for unscheduled courses.
func EventFromCourse(c *models.Course) (Event, bool, error) {
	if c == nil || c.Schedule == nil {
		return Event{}, false, nil
	}
	start, err := helpers.ToMinutes(c.Schedule.StartTime)
	if err != nil {
		return Event{}, false, fmt.Errorf("course %d start time: %w", c.ID, err)
	}
	end, err := helpers.ToMinutes(c.Schedule.EndTime)
	if err != nil {
		return Event{}, false, fmt.Errorf("course %d end time: %w", c.ID, err)
	}
	return Event{ID: c.ID, Day: c.Schedule.Day, Start: start, End: end}, true, nil
}

// EventsFromCourses converts every scheduled course, skipping unscheduled ones.
func EventsFromCourses(courses []*models.Course) ([]Event, error) {
	events := make([]Event, 0, len(courses))
	for _, c := range courses {
		e, ok, err := EventFromCourse(c)
		if err != nil {
			return nil, err
		}
		if ok {
			events = append(events, e)
		}
	}
	return events, nil
}
