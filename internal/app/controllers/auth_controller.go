package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/courseregistry/internal/app/models/dto"
	"github.com/yigit/courseregistry/internal/app/services"
	"github.com/yigit/courseregistry/internal/middleware"
)

// CookieSettings describes the session cookies written at login
type CookieSettings struct {
	StudentName string
	AdminName   string
	Secure      bool
	TTL         time.Duration
}

// AuthController handles student and admin sessions
type AuthController struct {
	authService services.AuthService
	cookies     CookieSettings
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, cookies CookieSettings, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, name, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(name, token, maxAge, "/", "", c.cookies.Secure, true)
}

// StudentLogin signs a student in by roll number
// @Summary Student login
// @Description Starts a student session for the given roll number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Roll number"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "Roll number not found"
// @Router /login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Roll number is required").WithField("rollNumber")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.KindValidation, detail))
		return
	}

	_, token, err := c.authService.StudentLogin(ctx, req.RollNumber)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, c.cookies.StudentName, token, int(c.cookies.TTL.Seconds()))
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Login successful"})
}

// AdminLogin signs an administrator in
// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Credentials"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	_, token, err := c.authService.AdminLogin(ctx, req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, c.cookies.AdminName, token, int(c.cookies.TTL.Seconds()))
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Admin login successful"})
}

// Logout ends the student session
// @Summary Student logout
// @Tags auth
// @Success 200 {object} dto.SuccessResponse
// @Router /logout [get]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.setSessionCookie(ctx, c.cookies.StudentName, "", -1)
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}

// AdminLogout ends the admin session
// @Summary Admin logout
// @Tags auth
// @Success 200 {object} dto.SuccessResponse
// @Router /admin/logout [get]
func (c *AuthController) AdminLogout(ctx *gin.Context) {
	c.setSessionCookie(ctx, c.cookies.AdminName, "", -1)
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}

// Profile returns the signed-in student
// @Summary Current student profile
// @Tags students
// @Produce json
// @Success 200 {object} dto.StudentProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/student/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	student, err := c.authService.Profile(ctx, middleware.StudentID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStudentProfileResponse(student))
}
