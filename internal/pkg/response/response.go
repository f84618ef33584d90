// Package response provides the JSON envelope helpers shared by all handlers.
package response

import (
	"net/http"

	infraerrors "github.com/zihao-lin/photoframe/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Body is the uniform response envelope.
type Body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success writes a 200 envelope with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Code: 0, Message: "success", Data: data})
}

// Error writes an envelope with the given HTTP status and message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Code: status, Message: message})
}

// ErrorFrom maps a service error onto the envelope, using the status and
// reason carried by status-coded errors.
func ErrorFrom(c *gin.Context, err error) {
	e := infraerrors.FromError(err)
	c.JSON(e.Status, Body{Code: e.Status, Message: e.Message, Reason: e.Reason})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
