package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
)

func TestSetStatusRequiresRegistration(t *testing.T) {
	f := newFixture()
	id := f.store.addCourse(&models.Course{CourseName: "Intro"})
	f.store.addStudent(&models.Student{ID: 1})

	err := f.prerequisites().SetStatus(context.Background(), 1, id, "pass")
	if !errors.Is(err, apperrors.ErrCourseNotRegistered) {
		t.Fatalf("expected CourseNotRegistered, got %v", err)
	}
	if len(f.store.student(1).PrerequisitesStatus) != 0 {
		t.Fatalf("no status should be recorded")
	}
}

func TestSetStatusUpsertsCaseInsensitive(t *testing.T) {
	f := newFixture()
	id := f.store.addCourse(&models.Course{CourseName: "Intro"})
	f.store.addStudent(&models.Student{ID: 1, RegisteredCourses: []int64{id}})
	svc := f.prerequisites()

	if err := svc.SetStatus(context.Background(), 1, id, "FAIL"); err != nil {
		t.Fatalf("set fail: %v", err)
	}
	if err := svc.SetStatus(context.Background(), 1, id, "Pass"); err != nil {
		t.Fatalf("set pass: %v", err)
	}

	statuses := f.store.student(1).PrerequisitesStatus
	if len(statuses) != 1 {
		t.Fatalf("expected one record after upsert, got %+v", statuses)
	}
	if statuses[0].Status != models.OutcomePass {
		t.Fatalf("expected stored lowercase pass, got %q", statuses[0].Status)
	}
}

func TestAdminSetStatusOnlyChecksExistence(t *testing.T) {
	f := newFixture()
	id := f.store.addCourse(&models.Course{CourseName: "Intro"})
	f.store.addStudent(&models.Student{ID: 1})
	svc := f.prerequisites()

	if err := svc.AdminSetStatus(context.Background(), 1, id, "pass"); err != nil {
		t.Fatalf("admin set: %v", err)
	}
	if !f.store.student(1).HasPassed(id) {
		t.Fatalf("expected pass recorded")
	}
	if err := svc.AdminSetStatus(context.Background(), 2, id, "pass"); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("expected StudentNotFound, got %v", err)
	}
	if err := svc.AdminSetStatus(context.Background(), 1, 999, "pass"); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("expected CourseNotFound, got %v", err)
	}
	if err := svc.AdminSetStatus(context.Background(), 1, id, "maybe"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected ValidationFailed, got %v", err)
	}
}
