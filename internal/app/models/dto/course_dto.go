package dto

import "github.com/yigit/courseregistry/internal/app/models"

// CourseResponse is the wire form of a course. An unscheduled course has
// null day, startTime and endTime.
type CourseResponse struct {
	ID            int64   `json:"id" example:"1"`
	CourseCode    *string `json:"courseCode" example:"CS101"`
	CourseName    string  `json:"courseName" example:"Programming Fundamentals"`
	Department    string  `json:"department" example:"Computer Science"`
	SeatCount     int     `json:"seatCount" example:"30"`
	Day           *string `json:"day" example:"Monday"`
	StartTime     *string `json:"startTime" example:"09:00"`
	EndTime       *string `json:"endTime" example:"10:00"`
	Prerequisites []int64 `json:"prerequisites"`
}

// NewCourseResponse maps a course entity to its wire form
func NewCourseResponse(c *models.Course) CourseResponse {
	resp := CourseResponse{
		ID:            c.ID,
		CourseCode:    c.CourseCode,
		CourseName:    c.CourseName,
		Department:    c.Department,
		SeatCount:     c.SeatCount,
		Prerequisites: c.Prerequisites,
	}
	if resp.Prerequisites == nil {
		resp.Prerequisites = []int64{}
	}
	if c.Schedule != nil {
		day := string(c.Schedule.Day)
		start, end := c.Schedule.StartTime, c.Schedule.EndTime
		resp.Day, resp.StartTime, resp.EndTime = &day, &start, &end
	}
	return resp
}

// NewCourseResponses maps a list of courses
func NewCourseResponses(courses []*models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseResponse(c))
	}
	return out
}

// CourseMessageResponse is returned by workflows that change one course
type CourseMessageResponse struct {
	Message string         `json:"message"`
	Course  CourseResponse `json:"course"`
}

// EnrolledCourseResponse adds the number of registered students
type EnrolledCourseResponse struct {
	CourseResponse
	EnrolledCount       int                    `json:"enrolledCount" example:"12"`
	PrerequisiteCourses []models.CourseSummary `json:"prerequisiteCourses,omitempty"`
}

// AdminCourseListResponse is a page of the admin catalog
type AdminCourseListResponse struct {
	Courses    []EnrolledCourseResponse `json:"courses"`
	Pagination PaginationInfo           `json:"pagination"`
}

// TimetableEntryResponse is one registered course on the weekly calendar
type TimetableEntryResponse struct {
	CourseResponse
	Conflict bool `json:"conflict"`
}

// PrerequisiteChainResponse lists the transitive prerequisites of a course
type PrerequisiteChainResponse struct {
	Chain []models.CourseSummary `json:"chain"`
}

// CreateCourseRequest is the student-facing course creation body
type CreateCourseRequest struct {
	CourseName string `json:"courseName" binding:"required"`
	Day        string `json:"day" binding:"omitempty,weekday"`
	StartTime  string `json:"startTime" binding:"omitempty,hhmm"`
	EndTime    string `json:"endTime" binding:"omitempty,hhmm"`
}

// CreateAdminCourseRequest creates a catalog course. Prerequisites are
// referenced by course name.
type CreateAdminCourseRequest struct {
	CourseCode    string   `json:"courseCode" binding:"required"`
	CourseName    string   `json:"courseName" binding:"required"`
	SeatCount     *int     `json:"seatCount" binding:"omitempty,min=0"`
	Department    string   `json:"department"`
	Prerequisites []string `json:"prerequisites"`
}

// UpdateAdminCourseRequest edits the catalog fields of a course. Omitted
// fields keep their current value.
type UpdateAdminCourseRequest struct {
	CourseCode    *string  `json:"courseCode"`
	CourseName    *string  `json:"courseName" binding:"omitempty,min=1"`
	SeatCount     *int     `json:"seatCount" binding:"omitempty,min=0"`
	Department    *string  `json:"department"`
	Prerequisites []string `json:"prerequisites"`
}

// CourseIDRequest carries a single course reference
type CourseIDRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
}

// UpdateTimetableRequest assigns a weekly slot to a registered course
type UpdateTimetableRequest struct {
	CourseID  int64  `json:"courseId" binding:"required,min=1"`
	Day       string `json:"day" binding:"required,weekday"`
	StartTime string `json:"startTime" binding:"required,hhmm"`
	EndTime   string `json:"endTime" binding:"required,hhmm"`
}
