package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The API contract is a flat JSON envelope: every body carries "success",
// failures add "message" (and optionally "details"), successes merge their
// payload at the top level, e.g. {"success":true,"user":{...},"token":"..."}.

// Success writes a 2xx body with success=true merged into payload.
func Success(c *gin.Context, status int, payload gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes a failure body {success:false, message, details?}.
func Error(c *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	body := gin.H{"success": false, "message": message}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, body)
}

// AbortError writes a failure body and stops the handler chain. Middleware use.
func AbortError(c *gin.Context, status int, message string, details interface{}) {
	Error(c, status, message, details)
	c.Abort()
}
