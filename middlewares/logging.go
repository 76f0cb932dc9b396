package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}

// Logger attaches a request-scoped logrus entry and writes one access line
// per request. It must run after RequestID.
func Logger(base *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := base.WithField(requestIDKey, c.GetString(requestIDKey))
		c.Set(loggerKey, entry)

		c.Next()

		fields := log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.WithFields(fields).Error("request failed")
		case status >= 400:
			entry.WithFields(fields).Warn("request rejected")
		default:
			entry.WithFields(fields).Info("request handled")
		}
	}
}

// LoggerFrom returns the request logger, or the standard logger when the
// Logger middleware is not installed.
func LoggerFrom(c *gin.Context) *log.Entry {
	if v, ok := c.Get(loggerKey); ok {
		if entry, ok := v.(*log.Entry); ok {
			return entry
		}
	}
	return log.NewEntry(log.StandardLogger())
}
