package dto

import "github.com/yigit/courseregistry/internal/app/models"

// OutstandingPrerequisitesEntry is one student with non-pass status records
type OutstandingPrerequisitesEntry struct {
	RollNumber string                      `json:"rollNumber"`
	NotPassed  []models.PrerequisiteStatus `json:"notPassed"`
}

// OutstandingPrerequisitesReport wraps the prerequisites-not-completed report
type OutstandingPrerequisitesReport struct {
	Students []OutstandingPrerequisitesEntry `json:"students"`
}

// CourseStudentEntry is one student matched by the course-students report
type CourseStudentEntry struct {
	Username   string `json:"username"`
	RollNumber string `json:"rollNumber"`
}

// CourseStudentsReport wraps the course-students report
type CourseStudentsReport struct {
	Students []CourseStudentEntry `json:"students"`
}
