package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseregistry/internal/app/models/dto"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	kind    dto.ErrorKind
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first errors.Is match wins
var errorMappings = []errorMapping{
	{apperrors.ErrNoSeatsAvailable, http.StatusBadRequest, dto.KindNoSeatsAvailable, dto.ErrorCodeNoSeatsAvailable, "No seats available. Consider subscribing for notifications."},
	{apperrors.ErrPrerequisitesNotMet, http.StatusBadRequest, dto.KindPrerequisitesNotMet, dto.ErrorCodePrerequisitesNotMet, "You must complete prerequisites first."},
	{apperrors.ErrScheduleConflict, http.StatusBadRequest, dto.KindScheduleConflict, dto.ErrorCodeScheduleConflict, "Conflict detected with another course. Timetable not updated."},
	{apperrors.ErrCourseNotRegistered, http.StatusBadRequest, dto.KindCourseNotRegistered, dto.ErrorCodeCourseNotRegistered, "Course not registered. Please register first."},
	{apperrors.ErrAlreadySubscribed, http.StatusBadRequest, dto.KindAlreadySubscribed, dto.ErrorCodeAlreadySubscribed, "Already subscribed for notifications"},
	{apperrors.ErrDuplicateCourseCode, http.StatusBadRequest, dto.KindDuplicateCourseCode, dto.ErrorCodeResourceAlreadyExists, "Course code already exists"},
	{apperrors.ErrDuplicateCourseName, http.StatusBadRequest, dto.KindDuplicateCourseName, dto.ErrorCodeResourceAlreadyExists, "Course name already exists"},

	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.KindValidation, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.KindValidation, dto.ErrorCodeValidationFailed, "Bad request"},
	{apperrors.ErrInvalidTimeFormat, http.StatusBadRequest, dto.KindValidation, dto.ErrorCodeValidationFailed, "Invalid time format, expected HH:MM"},
	{apperrors.ErrInvalidDay, http.StatusBadRequest, dto.KindValidation, dto.ErrorCodeValidationFailed, "Invalid day of week"},
	{apperrors.ErrInvalidStatus, http.StatusBadRequest, dto.KindValidation, dto.ErrorCodeValidationFailed, `Status must be either "pass" or "fail"`},

	{apperrors.ErrCourseNotFound, http.StatusNotFound, dto.KindNotFound, dto.ErrorCodeResourceNotFound, "Course not found"},
	{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.KindNotFound, dto.ErrorCodeResourceNotFound, "Student not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.KindNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},

	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.KindUnauthenticated, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.KindUnauthenticated, dto.ErrorCodeUnauthorized, "Authentication required"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.KindUnauthenticated, dto.ErrorCodeExpiredToken, "Session expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.KindUnauthenticated, dto.ErrorCodeInvalidToken, "Invalid session"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.KindForbidden, dto.ErrorCodeForbidden, "Permission denied"},
}

// ResolveError maps an error to its HTTP status and response body
func ResolveError(err error) (int, *dto.ErrorResponse) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		detail := dto.NewErrorDetail(m.code, m.message)
		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			if custom.Message != "" {
				detail.Message = custom.Message
			}
			if custom.Details != nil {
				detail.WithDetails(custom.Details)
			}
		}
		return m.status, dto.NewErrorResponse(m.kind, detail)
	}

	detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
	return http.StatusInternalServerError, dto.NewErrorResponse(dto.KindInternal, detail)
}

// HandleAPIError writes the JSON error response for err and aborts the chain
func HandleAPIError(c *gin.Context, err error) {
	status, body := ResolveError(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error while serving request")
	}
	c.AbortWithStatusJSON(status, body)
}

// HandleBindingError writes a validation response for a failed request bind
func HandleBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.KindValidation, dto.HandleValidationError(err)))
}
