package middleware

import (
	"net/http" // HTTP status codes
	"time"     // Timestamps

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
	"github.com/sirupsen/logrus"  // Structured logging
)

// RequestLogger logs every mutating request and every failed response
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if c.Request.Method == http.MethodGet && status < http.StatusBadRequest {
			return
		}
		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   status,
			"latency":  time.Since(start).String(),
			"clientIP": c.ClientIP(),
		})
		if userID := c.GetString(CtxUserID); userID != "" {
			entry = entry.WithField("user_id", userID)
		}
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}

// CORS allows any origin to call the API with a bearer token
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"X-Cache", "Content-Disposition"},
		MaxAge:          12 * time.Hour,
	})
}
