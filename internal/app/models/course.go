package models

// ScheduleSlot is the weekly meeting time of a course. A nil slot on a course
// means the course is unscheduled.
type ScheduleSlot struct {
	Day       Day    `json:"day"`
	StartTime string `json:"startTime"` // HH:MM
	EndTime   string `json:"endTime"`   // HH:MM
}

// Course represents a course in the catalog.
type Course struct {
	ID         int64         `json:"id" db:"id"`
	CourseCode *string       `json:"courseCode,omitempty" db:"course_code"` // Nullable
	CourseName string        `json:"courseName" db:"course_name"`
	Department string        `json:"department" db:"department"`
	SeatCount  int           `json:"seatCount" db:"seat_count"`
	Schedule   *ScheduleSlot `json:"schedule,omitempty"`

	// Prerequisites holds the IDs of the direct prerequisite courses.
	Prerequisites []int64 `json:"prerequisites"`
	// Subscribers holds the IDs of students waiting for a seat.
	Subscribers []int64 `json:"-"`
}

// IsFull reports whether no seats remain.
func (c *Course) IsFull() bool {
	return c.SeatCount <= 0
}

// CourseSummary is the short form used in prerequisite chains and pickers.
type CourseSummary struct {
	ID         int64   `json:"id"`
	CourseName string  `json:"courseName"`
	CourseCode *string `json:"courseCode,omitempty"`
}

// Summary returns the short form of the course.
func (c *Course) Summary() CourseSummary {
	return CourseSummary{ID: c.ID, CourseName: c.CourseName, CourseCode: c.CourseCode}
}
