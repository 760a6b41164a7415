package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/ctxutil"
)

// ErrorBody is the JSON shape of every failed API call. TraceID matches the
// X-Trace-Id response header, so a UI error can be found in the logs.
type ErrorBody struct {
	Error struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
		TraceID string `json:"trace_id,omitempty"`
	} `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	var body ErrorBody
	body.Error.Code = code
	body.Error.Message = http.StatusText(status)
	if err != nil {
		body.Error.Message = err.Error()
		_ = c.Error(err)
	}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		body.Error.TraceID = td.TraceID
	}
	c.AbortWithStatusJSON(status, body)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondAccepted answers a request whose work continues in the background.
func RespondAccepted(c *gin.Context, payload any) {
	c.JSON(http.StatusAccepted, payload)
}
