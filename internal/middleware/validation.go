package middleware

import (
	"github.com/gin-gonic/gin"
)

// BindJSON binds and validates the request body into obj. On failure it
// writes a ValidationError response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleBindingError(c, err)
		return false
	}
	return true
}

// BindQuery binds and validates query parameters into obj
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		HandleBindingError(c, err)
		return false
	}
	return true
}
