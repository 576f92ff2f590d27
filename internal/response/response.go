package response

import "github.com/gin-gonic/gin"

// Envelope is the JSON shape every API endpoint responds with:
// {"success": true, "data": ...} or
// {"success": false, "error": {"code": "...", "message": "..."}}.
type Envelope struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{
		Success: false,
		Error:   &ErrorPayload{Code: code, Message: message},
	})
}

// AbortFail writes the error envelope and stops the handler chain.
func AbortFail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorPayload{Code: code, Message: message},
	})
}
