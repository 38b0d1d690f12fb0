package utils

import "github.com/gin-gonic/gin"

// JSONResponse is the uniform envelope for data endpoints.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// ValidationError returns a 400 with per-field messages so a client can
// re-render the submitted form.
func ValidationError(ctx *gin.Context, code int, fields map[string]string) {
	ctx.JSON(400, gin.H{
		"code":    code,
		"message": "validation failed",
		"errors":  fields,
	})
}
