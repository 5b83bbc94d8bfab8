package models

import (
	"strings"

	"github.com/yigit/courseregistry/internal/pkg/apperrors"
)

// RoleType defines the session role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleAdmin   RoleType = "ADMIN"
)

// Day is a day of the week a course meets on
type Day string

// Day constants
const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

var weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDay converts a case-insensitive day name into its canonical form.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	for _, d := range weekdays {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", apperrors.ErrInvalidDay
}

// PrerequisiteOutcome is the recorded result for a prerequisite course
type PrerequisiteOutcome string

const (
	OutcomePass PrerequisiteOutcome = "pass"
	OutcomeFail PrerequisiteOutcome = "fail"
)

// ParseOutcome accepts "pass"/"fail" in any letter case.
func ParseOutcome(s string) (PrerequisiteOutcome, error) {
	switch PrerequisiteOutcome(strings.ToLower(strings.TrimSpace(s))) {
	case OutcomePass:
		return OutcomePass, nil
	case OutcomeFail:
		return OutcomeFail, nil
	}
	return "", apperrors.ErrInvalidStatus
}
