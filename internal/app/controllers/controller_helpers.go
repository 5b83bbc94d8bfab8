package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseregistry/internal/app/models/dto"
	"github.com/yigit/courseregistry/internal/app/services"
	"github.com/yigit/courseregistry/internal/middleware"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
)

// parseIDParam reads a positive int64 path parameter
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(name+" must be a positive number"))
		return 0, false
	}
	return id, true
}

// parseIDQuery reads a required positive int64 query parameter
func parseIDQuery(ctx *gin.Context, name string) (int64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(name+" is required"))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(name+" must be a positive number"))
		return 0, false
	}
	return id, true
}

func newEnrolledCourseResponse(c services.EnrolledCourse) dto.EnrolledCourseResponse {
	return dto.EnrolledCourseResponse{
		CourseResponse:      dto.NewCourseResponse(c.Course),
		EnrolledCount:       c.EnrolledCount,
		PrerequisiteCourses: c.PrerequisiteCourses,
	}
}

func newEnrolledCourseResponses(courses []services.EnrolledCourse) []dto.EnrolledCourseResponse {
	out := make([]dto.EnrolledCourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, newEnrolledCourseResponse(c))
	}
	return out
}
