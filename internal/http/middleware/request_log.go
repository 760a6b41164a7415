package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/ctxutil"
	"github.com/AakashReddy4/ai-wiki-quiz-generator/internal/platform/logger"
)

// quietRoutes are polled or long-lived; they only log at debug.
var quietRoutes = map[string]bool{
	"/healthz":    true,
	"/api/events": true,
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"elapsed_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		case quietRoutes[route]:
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
