package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseregistry/internal/app/controllers"
	"github.com/yigit/courseregistry/internal/middleware"
	"github.com/yigit/courseregistry/internal/pkg/websocket"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	Course       *controllers.CourseController
	Registration *controllers.RegistrationController
	Admin        *controllers.AdminController
	Health       *controllers.HealthController
	Notices      *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	metricsHandler http.Handler,
) {
	// --- Public routes ---
	router.POST("/login", c.Auth.StudentLogin)
	router.GET("/logout", c.Auth.Logout)
	router.POST("/admin/login", c.Auth.AdminLogin)
	router.GET("/admin/logout", c.Auth.AdminLogout)
	router.GET("/health", c.Health.Health)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := router.Group("/api")

	// --- Student routes ---
	student := api.Group("")
	student.Use(authMiddleware.RequireStudent())
	{
		student.POST("/register-course", c.Registration.RegisterCourse)
		student.DELETE("/unregister-course", c.Registration.UnregisterCourse)
		student.POST("/subscribe-course", c.Registration.SubscribeCourse)

		student.GET("/courses", c.Course.ListCourses)
		student.POST("/courses", c.Course.CreateCourse)
		student.DELETE("/courses/:id", c.Course.DeleteCourse)
		student.GET("/all-courses", c.Course.AllCourses)
		student.GET("/departments", c.Course.Departments)
		student.GET("/course-prerequisite-chain", c.Course.PrerequisiteChain)

		self := student.Group("/student")
		{
			self.GET("/profile", c.Auth.Profile)
			self.GET("/courses", c.Course.StudentCourses)
			self.GET("/timetable", c.Registration.Timetable)
			self.POST("/update-timetable", c.Registration.UpdateTimetable)
			self.POST("/prerequisite-status", c.Registration.SetPrerequisiteStatus)
			self.GET("/notifications/ws", c.Notices.HandleConnection)
		}
	}

	// --- Admin routes ---
	admin := api.Group("/admin")
	admin.Use(authMiddleware.RequireAdmin())
	{
		courses := admin.Group("/courses")
		{
			courses.GET("", c.Admin.ListCourses)
			courses.POST("", c.Admin.CreateCourse)
			courses.PUT("/:id", c.Admin.UpdateCourse)
			courses.DELETE("/:id", c.Admin.DeleteCourse)
		}

		admin.GET("/student-courses", c.Admin.StudentCourses)
		admin.POST("/student-course/drop", c.Admin.DropStudent)
		admin.POST("/student-course/prerequisites", c.Admin.SetPrerequisiteStatus)

		reports := admin.Group("/reports")
		{
			reports.GET("/available-courses", c.Admin.AvailableCoursesReport)
			reports.GET("/prerequisites-not-completed", c.Admin.PrerequisitesNotCompletedReport)
			reports.GET("/course-students", c.Admin.CourseStudentsReport)
		}
	}
}
