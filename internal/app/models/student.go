package models

// PrerequisiteStatus tags one course with the student's pass/fail outcome.
type PrerequisiteStatus struct {
	CourseID int64               `json:"courseId" db:"course_id"`
	Status   PrerequisiteOutcome `json:"status" db:"status"`
}

// Student defines the student model based on the 'students' table
type Student struct {
	ID                  int64                `json:"id" db:"id"`
	RollNumber          string               `json:"rollNumber" db:"roll_number"`
	Username            string               `json:"username" db:"username"`
	RegisteredCourses   []int64              `json:"registeredCourses"`
	PrerequisitesStatus []PrerequisiteStatus `json:"prerequisitesStatus"`
}

// IsRegistered reports whether the course is on the student's roster.
func (s *Student) IsRegistered(courseID int64) bool {
	for _, id := range s.RegisteredCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// HasPassed reports whether the student has a "pass" record for the course.
func (s *Student) HasPassed(courseID int64) bool {
	for _, ps := range s.PrerequisitesStatus {
		if ps.CourseID == courseID && ps.Status == OutcomePass {
			return true
		}
	}
	return false
}

// NotPassed returns every status record that is not a pass.
func (s *Student) NotPassed() []PrerequisiteStatus {
	var out []PrerequisiteStatus
	for _, ps := range s.PrerequisitesStatus {
		if ps.Status != OutcomePass {
			out = append(out, ps)
		}
	}
	return out
}

// Admin defines an administrator account
type Admin struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}
