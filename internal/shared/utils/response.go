package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse wraps data in the success envelope.
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// CreatedResponse replies 201. The optional message replaces the default.
func CreatedResponse(c *gin.Context, data interface{}, message ...string) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Message: "Resource created successfully",
	}
	if len(message) > 0 {
		response.Message = message[0]
	}
	c.JSON(http.StatusCreated, response)
}

func fail(c *gin.Context, statusCode int, info *ErrorInfo) {
	c.JSON(statusCode, APIResponse{Success: false, Error: info})
}

// ErrorResponse is for failures raised by the HTTP layer itself, such as a
// missing token.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	fail(c, statusCode, &ErrorInfo{Type: "error", Message: message})
}

// ErrorResponseWithError maps an AppError onto its status code. Internal
// errors and plain errors collapse to a generic 500 without details.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Type == errors.ErrorTypeInternal {
		fail(c, http.StatusInternalServerError, &ErrorInfo{
			Type:    string(errors.ErrorTypeInternal),
			Message: constants.ErrMsgInternalServerError,
		})
		return
	}
	fail(c, appErr.Code, &ErrorInfo{
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
