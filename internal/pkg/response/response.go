package response

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/portal-berita/core/internal/pkg/apperr"
)

const (
	msgValidationFailed = "Validation failed"
	msgInternal         = "Something went wrong"
	msgUnauthorized     = "Unauthenticated"
	msgTooManyRequests  = "Too many requests, slow down"
)

var exposeInternal atomic.Bool

// ExposeInternalErrors controls whether 500 responses carry the raw cause.
// Enabled in development only.
func ExposeInternalErrors(v bool) { exposeInternal.Store(v) }

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

// Envelope is the uniform response body.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// OK sends a 200 response.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Paged sends a 200 list response; pagination may be nil for unpaged lists.
func Paged(c *gin.Context, message string, data interface{}, pagination *Pagination) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data, Pagination: pagination})
}

// Created sends a 201 response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{Message: message})
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{Message: msgUnauthorized})
}

// UnauthorizedMsg sends a 401 error response with a custom message.
func UnauthorizedMsg(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{Message: message})
}

// NotFound sends a 404 error response. No data is ever attached.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Not Found"
	}
	c.AbortWithStatusJSON(http.StatusNotFound, Envelope{Message: message})
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, Envelope{Message: "Method Not Allowed"})
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusConflict, Envelope{Message: message})
}

// UnprocessableEntity sends a 422 response with field-keyed messages.
func UnprocessableEntity(c *gin.Context, fields apperr.Fields) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Envelope{Message: msgValidationFailed, Errors: fields})
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Envelope{Message: msgTooManyRequests})
}

// InternalError sends a 500 error response. The cause is recorded on the
// gin context for the request logger.
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	body := Envelope{Message: msgInternal}
	if exposeInternal.Load() && err != nil {
		body.Errors = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// Error maps an apperr kind onto the matching response. notFoundMsg is used
// for the 404 message so each resource can name itself.
func Error(c *gin.Context, err error, notFoundMsg string) {
	ae, ok := apperr.As(err)
	if !ok {
		InternalError(c, err)
		return
	}
	switch ae.Kind {
	case apperr.KindValidation:
		UnprocessableEntity(c, ae.Fields)
	case apperr.KindNotFound:
		if notFoundMsg == "" {
			notFoundMsg = ae.Message
		}
		NotFound(c, notFoundMsg)
	case apperr.KindConflict:
		Conflict(c, ae.Message)
	default:
		InternalError(c, err)
	}
}
