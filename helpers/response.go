package helpers

import (
	"github.com/pocketbase/pocketbase/core"
)

type ErrorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// Error writes the error envelope with the given HTTP status and logs the message.
func Error(e *core.RequestEvent, status int, message string) {
	var errorResponse ErrorResponse
	errorResponse.Status = false
	errorResponse.Message = message
	Logging(e.App, "error", message)
	e.JSON(status, errorResponse)
}
