package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Message  string `json:"message"`
	Details  string `json:"details,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// ErrorHandler recovers a panicking handler and answers with a 500 body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				GetLogger().Error("Handler panicked",
					zap.String("method", c.Request.Method),
					zap.String("route", c.FullPath()),
					zap.Any("panic", rec))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError aborts the request with status and a structured body.
func JSONError(c *gin.Context, status int, message string, details string) {
	abortJSON(c, status, ErrorResponse{Message: message, Details: details})
}

// JSONRedirect aborts with status and points the caller at location, both in
// the Location header and in the body.
func JSONRedirect(c *gin.Context, status int, message string, location string) {
	c.Header("Location", location)
	abortJSON(c, status, ErrorResponse{Message: message, Redirect: location})
}

func abortJSON(c *gin.Context, status int, body ErrorResponse) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}
	if body.Details != "" {
		fields = append(fields, zap.String("details", body.Details))
	}
	if body.Redirect != "" {
		fields = append(fields, zap.String("redirect", body.Redirect))
	}
	if status >= http.StatusInternalServerError {
		GetLogger().Error(body.Message, fields...)
	} else {
		GetLogger().Warn(body.Message, fields...)
	}
	c.AbortWithStatusJSON(status, body)
}
