package views

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	RequestIDHeader = "X-Request-ID"
	ctxRequestIDKey = "request_id"
)

// RequestID keeps an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ctxRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one event per request. Requests that collected gin
// errors are logged at error level with those errors.
func AccessLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case len(c.Errors) > 0 || status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev = ev.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString(ctxRequestIDKey))
		if q := c.Request.URL.RawQuery; q != "" {
			ev = ev.Str("query", q)
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Msg("request")
	}
}
