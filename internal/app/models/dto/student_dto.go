package dto

import "github.com/yigit/courseregistry/internal/app/models"

// StudentLoginRequest logs a student in by roll number
type StudentLoginRequest struct {
	RollNumber string `json:"rollNumber" binding:"required"`
}

// AdminLoginRequest represents admin credentials
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StudentProfileResponse is the signed-in student's profile
type StudentProfileResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	RollNumber string `json:"rollNumber"`
}

// NewStudentProfileResponse maps a student entity
func NewStudentProfileResponse(s *models.Student) StudentProfileResponse {
	return StudentProfileResponse{ID: s.ID, Username: s.Username, RollNumber: s.RollNumber}
}

// PrerequisiteStatusRequest records a pass/fail outcome for the caller
type PrerequisiteStatusRequest struct {
	CourseID int64  `json:"courseId" binding:"required,min=1"`
	Status   string `json:"status" binding:"required,outcome"`
}

// AdminDropRequest drops a student from a course
type AdminDropRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1"`
	CourseID  int64 `json:"courseId" binding:"required,min=1"`
}

// AdminPrerequisiteStatusRequest records an outcome on behalf of a student
type AdminPrerequisiteStatusRequest struct {
	StudentID int64  `json:"studentId" binding:"required,min=1"`
	CourseID  int64  `json:"courseId" binding:"required,min=1"`
	Status    string `json:"status" binding:"required,outcome"`
}

// AdminStudentCoursesResponse lists a student's roster for the admin
type AdminStudentCoursesResponse struct {
	StudentID  int64                    `json:"studentId"`
	RollNumber string                   `json:"rollNumber"`
	Courses    []EnrolledCourseResponse `json:"courses"`
}

// StudentCoursesQuery selects a student by roll number
type StudentCoursesQuery struct {
	RollNumber string `json:"rollNumber" form:"rollNumber" binding:"required"`
}
