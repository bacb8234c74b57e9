package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/logger"
)

const (
	headerRequestID     = "X-Request-ID"
	headerAuthorization = "Authorization"
	ctxRequestID        = "request_id"
	bearerPrefix        = "Bearer "
)

// RequestIDMiddleware reuses the caller's X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ctxRequestID, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

// LoggingMiddleware logs every request once it has been served.
func LoggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	log = logger.WithFields(log)

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := logger.StringFields(
			logger.StringField{Key: logger.FieldRequestID, Value: c.GetString(ctxRequestID)},
			logger.StringField{Key: "method", Value: c.Request.Method},
			logger.StringField{Key: "path", Value: path},
			logger.StringField{Key: "client_ip", Value: c.ClientIP()},
		)
		fields = append(fields,
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("http request", fields...)
		case status >= 400:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}

// TokenAuthMiddleware rejects requests without the expected bearer token.
func TokenAuthMiddleware(token string) gin.HandlerFunc {
	expected := []byte(token)

	return func(c *gin.Context) {
		header := c.GetHeader(headerAuthorization)
		got := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if !strings.HasPrefix(header, bearerPrefix) || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			SendError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing or invalid bearer token", "")
			c.Abort()
			return
		}
		c.Next()
	}
}
