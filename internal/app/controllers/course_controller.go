package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseregistry/internal/app/models/dto"
	"github.com/yigit/courseregistry/internal/app/services"
	"github.com/yigit/courseregistry/internal/middleware"
)

// CourseController serves the student-facing catalog
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// ListCourses returns every course
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseResponse
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewCourseResponses(courses))
}

// CreateCourse creates an unseated course with an optional slot
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx, services.CourseInput{
		CourseName: req.CourseName,
		Slot:       services.SlotInput{Day: req.Day, StartTime: req.StartTime, EndTime: req.EndTime},
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewCourseResponse(course))
}

// DeleteCourse removes a course
// @Summary Delete a course
// @Tags courses
// @Param id path int true "Course ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.courseService.DeleteCourse(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Course deleted"})
}

// AllCourses returns id, name and code of every course
// @Summary Course picker list
// @Tags courses
// @Produce json
// @Success 200 {array} models.CourseSummary
// @Router /api/all-courses [get]
func (c *CourseController) AllCourses(ctx *gin.Context) {
	summaries, err := c.courseService.CourseSummaries(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

// Departments returns distinct department names
// @Summary List departments
// @Tags courses
// @Produce json
// @Success 200 {array} string
// @Router /api/departments [get]
func (c *CourseController) Departments(ctx *gin.Context) {
	departments, err := c.courseService.Departments(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if departments == nil {
		departments = []string{}
	}
	ctx.JSON(http.StatusOK, departments)
}

// PrerequisiteChain returns the transitive prerequisites of a course
// @Summary Prerequisite chain
// @Tags courses
// @Produce json
// @Param courseId query int true "Course ID"
// @Success 200 {object} dto.PrerequisiteChainResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/course-prerequisite-chain [get]
func (c *CourseController) PrerequisiteChain(ctx *gin.Context) {
	courseID, ok := parseIDQuery(ctx, "courseId")
	if !ok {
		return
	}
	chain, err := c.courseService.PrerequisiteChain(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.PrerequisiteChainResponse{Chain: chain})
}

// StudentCourses returns the signed-in student's registered courses
// @Summary Registered courses
// @Tags students
// @Produce json
// @Success 200 {array} dto.CourseResponse
// @Router /api/student/courses [get]
func (c *CourseController) StudentCourses(ctx *gin.Context) {
	courses, err := c.courseService.StudentCourses(ctx, middleware.StudentID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewCourseResponses(courses))
}
