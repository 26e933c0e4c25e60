package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salon-booking/internal/apperr"
)

// ErrorBody 统一错误结构，状态码与 HTTP 状态一致
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"` // string，或校验失败时的 []string
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

func NewError(c *gin.Context, status int, msg any) ErrorBody {
	if s, ok := msg.(string); ok && s == "" {
		msg = http.StatusText(status)
	}
	return ErrorBody{
		StatusCode: status,
		Message:    msg,
		Error:      http.StatusText(status),
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Path:       c.Request.URL.Path,
	}
}

// Abort stops the chain with an error body.
func Abort(c *gin.Context, status int, msg any) {
	c.AbortWithStatusJSON(status, NewError(c, status, msg))
}

// Fail maps err onto the error body. Unknown errors become 500 and are
// attached to the context for the access log.
func Fail(c *gin.Context, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		_ = c.Error(err)
		Abort(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	Abort(c, ae.Status, ae.Msg)
}

// OK writes data with status, or only the status for 204.
func OK(c *gin.Context, status int, data any) {
	if status == http.StatusNoContent {
		c.Status(status)
		return
	}
	c.JSON(status, data)
}
