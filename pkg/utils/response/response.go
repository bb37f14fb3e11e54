// Package response writes JSON responses for gin handlers.
//
// Successful responses carry the handler's payload as-is. Failures are
// written as {"error": "<message>"} with the status taken from the errno.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/medisearch/pkg/errors"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error string `json:"error"`
}

// OK writes data with status 200.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Fail writes err as an error body. Errors that are not an *errors.Errno
// are reported as internal errors; the cause is logged, never returned.
func Fail(c *gin.Context, err error) {
	e := errors.FromError(err)
	if cause := e.Unwrap(); cause != nil {
		logger.Errorw("Request failed",
			"path", c.Request.URL.Path,
			"code", e.Code,
			"error", cause.Error(),
		)
	}
	c.AbortWithStatusJSON(e.HTTPStatus(), ErrorBody{Error: e.Message(c.GetHeader("Accept-Language"))})
}
