package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-orders/metrics"
	"github.com/yeremiapane/restaurant-orders/utils"
)

const requestIDHeader = "X-Request-ID"

// LoggerMiddleware gives every request its own log entry, carried on the
// request context, and records the outcome once the handler returns.
func LoggerMiddleware(logger *logrus.Logger, m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       path,
		})
		c.Request = c.Request.WithContext(utils.WithLogger(c.Request.Context(), entry))

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		if raw != "" {
			path = path + "?" + raw
		}

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		if m != nil {
			m.ObserveRequest(handler, status, latency)
		}

		fields := logrus.Fields{
			"status":    status,
			"latency":   latency.String(),
			"client_ip": c.ClientIP(),
			"path":      path,
		}
		log := utils.LoggerFromContext(c.Request.Context()).WithFields(fields)
		switch {
		case status >= 500:
			log.Error("Request completed")
		case status >= 400:
			log.Warn("Request completed")
		default:
			log.Info("Request completed")
		}
	}
}
