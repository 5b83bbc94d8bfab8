package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseregistry/internal/app/models/dto"
	"github.com/yigit/courseregistry/internal/app/services"
	"github.com/yigit/courseregistry/internal/middleware"
)

// RegistrationController handles the student's own registration workflows
type RegistrationController struct {
	registration  services.RegistrationService
	prerequisites services.PrerequisiteService
	timetable     services.TimetableService
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(
	registration services.RegistrationService,
	prerequisites services.PrerequisiteService,
	timetable services.TimetableService,
) *RegistrationController {
	return &RegistrationController{
		registration:  registration,
		prerequisites: prerequisites,
		timetable:     timetable,
	}
}

// RegisterCourse registers the student in a course
// @Summary Register for a course
// @Tags registration
// @Accept json
// @Produce json
// @Param request body dto.CourseIDRequest true "Course"
// @Success 200 {object} dto.CourseMessageResponse
// @Failure 400 {object} dto.ErrorResponse "NoSeatsAvailable or PrerequisitesNotMet"
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/register-course [post]
func (c *RegistrationController) RegisterCourse(ctx *gin.Context) {
	var req dto.CourseIDRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.registration.Register(ctx, middleware.StudentID(ctx), req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Course registered successfully"
	switch {
	case result.AlreadyRegistered:
		message = "Course already registered"
	case result.LeveledUp():
		message = fmt.Sprintf("Prerequisite(s) completed and unregistered. You’ve leveled up to %s!", result.Course.CourseName)
	}
	ctx.JSON(http.StatusOK, dto.CourseMessageResponse{Message: message, Course: dto.NewCourseResponse(result.Course)})
}

// UnregisterCourse drops a course from the student's roster
// @Summary Drop a course
// @Tags registration
// @Accept json
// @Produce json
// @Param request body dto.CourseIDRequest true "Course"
// @Success 200 {object} dto.CourseMessageResponse
// @Failure 400 {object} dto.ErrorResponse "CourseNotRegistered"
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/unregister-course [delete]
func (c *RegistrationController) UnregisterCourse(ctx *gin.Context) {
	var req dto.CourseIDRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.registration.Drop(ctx, middleware.StudentID(ctx), req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CourseMessageResponse{
		Message: "Course unregistered successfully; timetable cleared for this course",
		Course:  dto.NewCourseResponse(course),
	})
}

// SubscribeCourse puts the student on a course's seat-available list
// @Summary Subscribe to seat notices
// @Tags registration
// @Accept json
// @Produce json
// @Param request body dto.CourseIDRequest true "Course"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "AlreadySubscribed"
// @Router /api/subscribe-course [post]
func (c *RegistrationController) SubscribeCourse(ctx *gin.Context) {
	var req dto.CourseIDRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.registration.Subscribe(ctx, middleware.StudentID(ctx), req.CourseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Subscribed successfully for seat availability notifications"})
}

// UpdateTimetable moves a registered course to a new weekly slot
// @Summary Update timetable slot
// @Tags timetable
// @Accept json
// @Produce json
// @Param request body dto.UpdateTimetableRequest true "Slot"
// @Success 200 {object} dto.CourseMessageResponse
// @Failure 400 {object} dto.ErrorResponse "ScheduleConflict or missing field"
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/student/update-timetable [post]
func (c *RegistrationController) UpdateTimetable(ctx *gin.Context) {
	var req dto.UpdateTimetableRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.timetable.UpdateTimetable(ctx, middleware.StudentID(ctx), req.CourseID, services.SlotInput{
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CourseMessageResponse{Message: "Course updated successfully", Course: dto.NewCourseResponse(course)})
}

// Timetable returns the weekly calendar with conflict flags
// @Summary Weekly timetable
// @Tags timetable
// @Produce json
// @Success 200 {array} dto.TimetableEntryResponse
// @Router /api/student/timetable [get]
func (c *RegistrationController) Timetable(ctx *gin.Context) {
	entries, err := c.timetable.Timetable(ctx, middleware.StudentID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.TimetableEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.TimetableEntryResponse{CourseResponse: dto.NewCourseResponse(e.Course), Conflict: e.Conflict})
	}
	ctx.JSON(http.StatusOK, out)
}

// SetPrerequisiteStatus records a pass/fail outcome for a registered course
// @Summary Record prerequisite outcome
// @Tags registration
// @Accept json
// @Produce json
// @Param request body dto.PrerequisiteStatusRequest true "Outcome"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/student/prerequisite-status [post]
func (c *RegistrationController) SetPrerequisiteStatus(ctx *gin.Context) {
	var req dto.PrerequisiteStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.prerequisites.SetStatus(ctx, middleware.StudentID(ctx), req.CourseID, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Prerequisite status updated"})
}
