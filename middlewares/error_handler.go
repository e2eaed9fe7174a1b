package middlewares

import (
	"fmt"
	"net/http"

	"chakula-api/logger"
	"chakula-api/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler turns the last error pushed with c.Error into a response.
// exposeDetail adds the raw error text to 500 bodies and must be off in
// production.
func ErrorHandler(exposeDetail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		appErr, ok := utils.AsAppError(err)
		if !ok {
			logger.Error("request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", c.GetString(RequestIDKey),
				"err", err,
			)
			body := gin.H{"error": utils.MsgInternal}
			if exposeDetail {
				body["message"] = err.Error()
			}
			c.JSON(http.StatusInternalServerError, body)
			return
		}

		switch {
		case appErr.PlainText:
			c.String(appErr.Status, appErr.Message)
		case len(appErr.Details) > 0:
			c.JSON(appErr.Status, gin.H{"error": appErr.Message, "details": appErr.Details})
		default:
			c.JSON(appErr.Status, gin.H{"error": appErr.Message})
		}
	}
}

// Recovery logs a handler panic and hands it to ErrorHandler as a 500 so the
// process keeps serving.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("recovered from panic",
			"path", c.Request.URL.Path,
			"request_id", c.GetString(RequestIDKey),
			"panic", recovered,
		)
		_ = c.Error(fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}
