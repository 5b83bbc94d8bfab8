package dto

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeForbidden          ErrorCode = "AUTH_009"

	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"

	// Registration errors
	ErrorCodeNoSeatsAvailable    ErrorCode = "REG_001"
	ErrorCodePrerequisitesNotMet ErrorCode = "REG_002"
	ErrorCodeScheduleConflict    ErrorCode = "REG_003"
	ErrorCodeCourseNotRegistered ErrorCode = "REG_004"
	ErrorCodeAlreadySubscribed   ErrorCode = "REG_005"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// ErrorKind is the stable machine-readable category of an error response
type ErrorKind string

// Error kinds
const (
	KindValidation          ErrorKind = "ValidationError"
	KindNotFound            ErrorKind = "NotFound"
	KindUnauthenticated     ErrorKind = "Unauthenticated"
	KindForbidden           ErrorKind = "Forbidden"
	KindNoSeatsAvailable    ErrorKind = "NoSeatsAvailable"
	KindPrerequisitesNotMet ErrorKind = "PrerequisitesNotMet"
	KindScheduleConflict    ErrorKind = "ScheduleConflict"
	KindDuplicateCourseCode ErrorKind = "DuplicateCourseCode"
	KindDuplicateCourseName ErrorKind = "DuplicateCourseName"
	KindAlreadySubscribed   ErrorKind = "AlreadySubscribed"
	KindCourseNotRegistered ErrorKind = "CourseNotRegistered"
	KindInternal            ErrorKind = "InternalError"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels
const (
	ErrorSeverityInfo     ErrorSeverity = "INFO"
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"REG_001"`
	Message  string        `json:"message" example:"No seats available. Consider subscribing for notifications."`
	Field    string        `json:"field,omitempty" example:"courseId"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
	Details  interface{}   `json:"details,omitempty"`
}

// ErrorResponse is the body of every failed API call. Message mirrors
// Error.Message for clients that only read the top-level message.
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Message   string       `json:"message"`
	Kind      ErrorKind    `json:"kind" example:"NoSeatsAvailable"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(kind ErrorKind, errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Message:   errorDetail.Message,
		Kind:      kind,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HandleValidationError converts binding errors into a validation ErrorDetail.
// validator.ValidationErrors become a per-field list; anything else (such as
// malformed JSON) is reported as a single message.
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
	}

	detail := NewErrorDetail(ErrorCodeValidationFailed, fields[0].Message).WithDetails(fields)
	if len(fields) == 1 {
		detail.WithField(fields[0].Field)
	}
	return detail
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "hhmm":
		return fe.Field() + " must be a time in HH:MM format"
	case "weekday":
		return fe.Field() + " must be a day of the week"
	case "outcome":
		return fe.Field() + ` must be either "pass" or "fail"`
	default:
		return fe.Field() + " validation failed: " + fe.Tag()
	}
}
