package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/app/models/dto"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/auth"
	"github.com/yigit/courseregistry/internal/pkg/websocket"
)

// Context keys set by the session middleware
const (
	StudentIDKey = websocket.StudentIDKey
	AdminIDKey   = "adminID"
)

// AuthMiddleware checks the student and admin session cookies. The two
// identities are independent: each has its own cookie.
type AuthMiddleware struct {
	sessions          *auth.SessionService
	studentCookieName string
	adminCookieName   string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions *auth.SessionService, studentCookieName, adminCookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:          sessions,
		studentCookieName: studentCookieName,
		adminCookieName:   adminCookieName,
	}
}

// RequireStudent admits requests carrying a valid student session
func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return m.require(m.studentCookieName, models.RoleStudent, StudentIDKey)
}

// RequireAdmin admits requests carrying a valid admin session
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.require(m.adminCookieName, models.RoleAdmin, AdminIDKey)
}

func (m *AuthMiddleware) require(cookieName string, role models.RoleType, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			abortUnauthenticated(c, apperrors.ErrUnauthenticated)
			return
		}

		identity, err := m.sessions.Validate(token)
		if err != nil {
			abortUnauthenticated(c, err)
			return
		}
		if identity.Role != role {
			HandleAPIError(c, apperrors.ErrPermissionDenied)
			return
		}

		c.Set(key, identity.ID)
		c.Next()
	}
}

// sessionToken reads the session cookie, falling back to a Bearer header for
// API clients that do not keep cookies
func sessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func abortUnauthenticated(c *gin.Context, err error) {
	code := dto.ErrorCodeUnauthorized
	details := "Authentication required"
	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		code = dto.ErrorCodeExpiredToken
		details = "Session has expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		code = dto.ErrorCodeInvalidToken
		details = "Invalid session"
	}

	errorDetail := dto.NewErrorDetail(code, "Authentication required").
		WithDetails(details).
		WithSeverity(dto.ErrorSeverityError)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.KindUnauthenticated, errorDetail))
}

// StudentID returns the signed-in student set by RequireStudent
func StudentID(c *gin.Context) int64 {
	return c.GetInt64(StudentIDKey)
}

// AdminID returns the signed-in admin set by RequireAdmin
func AdminID(c *gin.Context) int64 {
	return c.GetInt64(AdminIDKey)
}
