package timetable

import (
	"testing"

	"github.com/yigit/courseregistry/internal/app/models"
)

func TestFindConflictsIsSymmetric(t *testing.T) {
	a := Event{ID: 1, Day: models.Monday, Start: 540, End: 600}
	b := Event{ID: 2, Day: models.Monday, Start: 570, End: 630}
	c := Event{ID: 3, Day: models.Monday, Start: 600, End: 660}
	d := Event{ID: 4, Day: models.Tuesday, Start: 540, End: 600}

	forward := FindConflicts([]Event{a, b, c, d})
	backward := FindConflicts([]Event{d, c, b, a})

	for _, id := range []int64{1, 2, 3} {
		if _, ok := forward[id]; !ok {
			t.Fatalf("expected event %d in conflict set", id)
		}
		if _, ok := backward[id]; !ok {
			t.Fatalf("expected event %d in reversed conflict set", id)
		}
	}
	if _, ok := forward[4]; ok {
		t.Fatalf("event alone on its day must not conflict")
	}
	if len(forward) != len(backward) {
		t.Fatalf("conflict set depends on input order: %v vs %v", forward, backward)
	}
}

func TestFindConflictsTouchingBoundary(t *testing.T) {
	got := FindConflicts([]Event{
		{ID: 1, Day: models.Friday, Start: 540, End: 600},
		{ID: 2, Day: models.Friday, Start: 600, End: 660},
	})
	if len(got) != 0 {
		t.Fatalf("touching intervals must not conflict, got %v", got)
	}
}

func TestHasConflict(t *testing.T) {
	existing := []Event{{ID: 1, Day: models.Monday, Start: 540, End: 600}}

	cases := []struct {
		name  string
		day   models.Day
		start int
		end   int
		want  bool
	}{
		{"overlap tail", models.Monday, 570, 630, true},
		{"contained", models.Monday, 550, 560, true},
		{"touching end", models.Monday, 600, 660, false},
		{"touching start", models.Monday, 480, 540, false},
		{"other day", models.Wednesday, 570, 630, false},
	}
	for _, tc := range cases {
		if got := HasConflict(tc.day, tc.start, tc.end, existing); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestEventsFromCoursesSkipsUnscheduled(t *testing.T) {
	courses := []*models.Course{
		{ID: 1, Schedule: &models.ScheduleSlot{Day: models.Monday, StartTime: "09:00", EndTime: "10:00"}},
		{ID: 2},
	}
	events, err := EventsFromCourses(courses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].ID != 1 || events[0].Start != 540 || events[0].End != 600 {
		t.Fatalf("unexpected events: %+v", events)
	}
}
