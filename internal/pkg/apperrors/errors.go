package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed  = errors.New("validation failed")
	ErrBadRequest        = errors.New("bad request")
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")
	ErrInvalidDay        = errors.New("invalid day of week")
	ErrInvalidStatus     = errors.New("status must be either \"pass\" or \"fail\"")
)

// Course errors
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrDuplicateCourseCode = errors.New("a course with this code already exists")
	ErrDuplicateCourseName = errors.New("a course with this name already exists")
	ErrNoSeatsAvailable    = errors.New("no seats available, consider subscribing for notifications")
	ErrAlreadySubscribed   = errors.New("already subscribed for notifications")
)

// Student errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrPrerequisitesNotMet = errors.New("you must complete prerequisites first")
	ErrScheduleConflict    = errors.New("conflict detected with another course, timetable not updated")
	ErrCourseNotRegistered = errors.New("course not registered, please register first")
)

// Admin errors
var (
	ErrAdminNotFound = errors.New("admin not found")
)

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
