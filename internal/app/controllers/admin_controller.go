package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseregistry/internal/app/models/dto"
	"github.com/yigit/courseregistry/internal/app/services"
	"github.com/yigit/courseregistry/internal/middleware"
	"github.com/yigit/courseregistry/internal/pkg/helpers"
)

// AdminController serves the admin catalog, roster and report endpoints
type AdminController struct {
	courses       services.CourseService
	registration  services.RegistrationService
	prerequisites services.PrerequisiteService
	reports       services.ReportService
}

// NewAdminController creates a new AdminController
func NewAdminController(
	courses services.CourseService,
	registration services.RegistrationService,
	prerequisites services.PrerequisiteService,
	reports services.ReportService,
) *AdminController {
	return &AdminController{
		courses:       courses,
		registration:  registration,
		prerequisites: prerequisites,
		reports:       reports,
	}
}

// ListCourses returns the catalog with enrollment counts. Passing page or
// size switches to a paginated envelope.
// @Summary Admin course list
// @Tags admin
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {array} dto.EnrolledCourseResponse
// @Router /api/admin/courses [get]
func (c *AdminController) ListCourses(ctx *gin.Context) {
	page, paged := helpers.ParsePaginationParams(ctx)
	var pageReq *helpers.PageRequest
	if paged {
		pageReq = &page
	}

	courses, total, err := c.courses.ListWithEnrollment(ctx, pageReq)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := newEnrolledCourseResponses(courses)
	if !paged {
		ctx.JSON(http.StatusOK, out)
		return
	}
	ctx.JSON(http.StatusOK, dto.AdminCourseListResponse{
		Courses:    out,
		Pagination: helpers.NewPaginationInfo(total, page),
	})
}

// CreateCourse adds a course to the catalog
// @Summary Create catalog course
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateAdminCourseRequest true "Course"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Validation or duplicate code/name"
// @Router /api/admin/courses [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateAdminCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	seats := 0
	if req.SeatCount != nil {
		seats = *req.SeatCount
	}
	course, err := c.courses.CreateCatalogCourse(ctx, services.CourseInput{
		CourseCode:    &req.CourseCode,
		CourseName:    req.CourseName,
		Department:    req.Department,
		SeatCount:     seats,
		Prerequisites: req.Prerequisites,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewCourseResponse(course))
}

// UpdateCourse edits the catalog fields sent in the body
// @Summary Update catalog course
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.UpdateAdminCourseRequest true "Course"
// @Success 200 {object} dto.CourseResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/courses/{id} [put]
func (c *AdminController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateAdminCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courses.UpdateCatalogCourse(ctx, id, services.CourseUpdate{
		CourseCode:    req.CourseCode,
		CourseName:    req.CourseName,
		Department:    req.Department,
		SeatCount:     req.SeatCount,
		Prerequisites: req.Prerequisites,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewCourseResponse(course))
}

// DeleteCourse removes a catalog course
// @Summary Delete catalog course
// @Tags admin
// @Param id path int true "Course ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/courses/{id} [delete]
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.courses.DeleteCourse(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Course deleted"})
}

// StudentCourses looks up a student's roster by roll number
// @Summary Student roster
// @Tags admin
// @Produce json
// @Param rollNumber query string true "Roll number"
// @Success 200 {object} dto.AdminStudentCoursesResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/student-courses [get]
func (c *AdminController) StudentCourses(ctx *gin.Context) {
	var query dto.StudentCoursesQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	result, err := c.reports.StudentCourses(ctx, query.RollNumber)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.AdminStudentCoursesResponse{
		StudentID:  result.Student.ID,
		RollNumber: result.Student.RollNumber,
		Courses:    newEnrolledCourseResponses(result.Courses),
	})
}

// DropStudent unregisters a student from a course
// @Summary Drop a student from a course
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminDropRequest true "Student and course"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "CourseNotRegistered"
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/student-course/drop [post]
func (c *AdminController) DropStudent(ctx *gin.Context) {
	var req dto.AdminDropRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if _, err := c.registration.AdminDrop(ctx, req.StudentID, req.CourseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student dropped from course successfully"})
}

// SetPrerequisiteStatus records an outcome on behalf of a student
// @Summary Record prerequisite outcome for a student
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminPrerequisiteStatusRequest true "Outcome"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/student-course/prerequisites [post]
func (c *AdminController) SetPrerequisiteStatus(ctx *gin.Context) {
	var req dto.AdminPrerequisiteStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := c.prerequisites.AdminSetStatus(ctx, req.StudentID, req.CourseID, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Prerequisites status updated successfully"})
}

// AvailableCoursesReport lists courses with seats left after enrollment
// @Summary Available courses report
// @Tags reports
// @Produce json
// @Success 200 {array} dto.EnrolledCourseResponse
// @Router /api/admin/reports/available-courses [get]
func (c *AdminController) AvailableCoursesReport(ctx *gin.Context) {
	courses, err := c.reports.AvailableCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newEnrolledCourseResponses(courses))
}

// PrerequisitesNotCompletedReport lists students with non-pass records
// @Summary Prerequisites not completed report
// @Tags reports
// @Produce json
// @Success 200 {object} dto.OutstandingPrerequisitesReport
// @Router /api/admin/reports/prerequisites-not-completed [get]
func (c *AdminController) PrerequisitesNotCompletedReport(ctx *gin.Context) {
	students, err := c.reports.OutstandingPrerequisites(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	report := dto.OutstandingPrerequisitesReport{Students: make([]dto.OutstandingPrerequisitesEntry, 0, len(students))}
	for _, s := range students {
		report.Students = append(report.Students, dto.OutstandingPrerequisitesEntry{
			RollNumber: s.RollNumber,
			NotPassed:  s.NotPassed(),
		})
	}
	ctx.JSON(http.StatusOK, report)
}

// CourseStudentsReport lists students registered in courses matching a name
// @Summary Course students report
// @Tags reports
// @Produce json
// @Param courseName query string true "Case-insensitive name fragment"
// @Success 200 {object} dto.CourseStudentsReport
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/reports/course-students [get]
func (c *AdminController) CourseStudentsReport(ctx *gin.Context) {
	students, err := c.reports.CourseStudents(ctx, ctx.Query("courseName"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	report := dto.CourseStudentsReport{Students: make([]dto.CourseStudentEntry, 0, len(students))}
	for _, s := range students {
		report.Students = append(report.Students, dto.CourseStudentEntry{Username: s.Username, RollNumber: s.RollNumber})
	}
	ctx.JSON(http.StatusOK, report)
}
