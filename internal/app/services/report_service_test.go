package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
)

func TestAvailableCoursesSubtractsEnrollment(t *testing.T) {
	f := newFixture()
	open := f.store.addCourse(&models.Course{CourseName: "Open", SeatCount: 3})
	tight := f.store.addCourse(&models.Course{CourseName: "Tight", SeatCount: 1})
	f.store.addCourse(&models.Course{CourseName: "Full", SeatCount: 0})
	f.store.addStudent(&models.Student{ID: 1, RegisteredCourses: []int64{open, tight}})

	courses, err := f.reports().AvailableCourses(context.Background())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(courses) != 1 || courses[0].Course.ID != open || courses[0].EnrolledCount != 1 {
		t.Fatalf("expected only Open with one enrolled, got %+v", courses)
	}
}

func TestOutstandingPrerequisites(t *testing.T) {
	f := newFixture()
	f.store.addStudent(&models.Student{ID: 1, RollNumber: "21-0001", PrerequisitesStatus: []models.PrerequisiteStatus{{CourseID: 1, Status: models.OutcomePass}}})
	f.store.addStudent(&models.Student{ID: 2, RollNumber: "21-0002", PrerequisitesStatus: []models.PrerequisiteStatus{
		{CourseID: 1, Status: models.OutcomePass},
		{CourseID: 2, Status: models.OutcomeFail},
	}})
	f.store.addStudent(&models.Student{ID: 3, RollNumber: "21-0003"})

	students, err := f.reports().OutstandingPrerequisites(context.Background())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(students) != 1 || students[0].RollNumber != "21-0002" {
		t.Fatalf("expected only 21-0002, got %+v", students)
	}
	if notPassed := students[0].NotPassed(); len(notPassed) != 1 || notPassed[0].CourseID != 2 {
		t.Fatalf("unexpected not-passed list %+v", notPassed)
	}
}

func TestCourseStudentsMatchesSubstringIgnoringCase(t *testing.T) {
	f := newFixture()
	ds := f.store.addCourse(&models.Course{CourseName: "Data Structures"})
	db := f.store.addCourse(&models.Course{CourseName: "Databases"})
	nw := f.store.addCourse(&models.Course{CourseName: "Networks"})
	f.store.addStudent(&models.Student{ID: 1, Username: "ada", RegisteredCourses: []int64{ds}})
	f.store.addStudent(&models.Student{ID: 2, Username: "alan", RegisteredCourses: []int64{db, ds}})
	f.store.addStudent(&models.Student{ID: 3, Username: "grace", RegisteredCourses: []int64{nw}})

	students, err := f.reports().CourseStudents(context.Background(), "DATA")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(students) != 2 || students[0].Username != "ada" || students[1].Username != "alan" {
		t.Fatalf("expected ada and alan once each, got %+v", students)
	}

	if _, err := f.reports().CourseStudents(context.Background(), "  "); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected ValidationFailed for blank name, got %v", err)
	}
}

func TestStudentCoursesByRollNumber(t *testing.T) {
	f := newFixture()
	ds := f.store.addCourse(&models.Course{CourseName: "Data Structures", SeatCount: 4})
	f.store.addStudent(&models.Student{ID: 1, RollNumber: "21-0001", RegisteredCourses: []int64{ds}})

	result, err := f.reports().StudentCourses(context.Background(), "21-0001")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if result.Student.ID != 1 || len(result.Courses) != 1 || result.Courses[0].EnrolledCount != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	if _, err := f.reports().StudentCourses(context.Background(), "nope"); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("expected StudentNotFound, got %v", err)
	}
}
