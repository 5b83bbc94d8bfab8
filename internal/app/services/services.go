// Package services holds the registration business logic.
//
// Services defined in this package:
//   - RegistrationService: register, drop, admin drop and seat subscriptions
//   - PrerequisiteService: pass/fail status records
//   - TimetableService: weekly slot edits and the conflict-flagged calendar
//   - CourseService: catalog reads and writes, prerequisite chains
//   - ReportService: admin reports
//   - AuthService: student and admin login
//   - NotificationService: seat-available notices to subscribers
package services

import (
	"github.com/yigit/courseregistry/internal/app/models"
)

// Drop actors
const (
	ActorStudent = "student"
	ActorAdmin   = "admin"
)

// EnrolledCourse is a course with the number of students registered in it
type EnrolledCourse struct {
	Course              *models.Course
	EnrolledCount       int
	PrerequisiteCourses []models.CourseSummary
}

func courseIDs(courses []*models.Course) []int64 {
	ids := make([]int64, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

func summariesByID(courses []*models.Course) map[int64]models.CourseSummary {
	out := make(map[int64]models.CourseSummary, len(courses))
	for _, c := range courses {
		out[c.ID] = c.Summary()
	}
	return out
}
