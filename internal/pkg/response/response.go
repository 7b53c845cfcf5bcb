package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mycosoft/unified-search/internal/pkg/errors"
)

// Response is the JSON envelope every endpoint returns
type Response struct {
	Code    int         `json:"code"`              // business code, 0 on success
	Message string      `json:"message,omitempty"` // human readable message
	Data    interface{} `json:"data"`              // payload, {} when empty
}

// Success writes a 200 envelope
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(http.StatusOK, Response{
		Code: apperrors.Success,
		Data: data,
	})
}

// NotFound answers routes that do not exist with the 404 envelope
func NotFound(c *gin.Context) {
	ErrorWithCode(c, apperrors.ErrNotFound, c.Request.Method+" "+c.Request.URL.Path)
}

// HandleError maps an AppError (or any error) to the envelope
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := apperrors.ExtractCode(err)
	c.JSON(apperrors.GetHTTPStatus(code), Response{
		Code:    code,
		Message: apperrors.FormatError(code, apperrors.GetDetails(err)),
		Data:    struct{}{},
	})
}

// ErrorWithCode writes the envelope for a business code
func ErrorWithCode(c *gin.Context, code int, details ...string) {
	c.JSON(apperrors.GetHTTPStatus(code), Response{
		Code:    code,
		Message: apperrors.FormatError(code, details...),
		Data:    struct{}{},
	})
}
