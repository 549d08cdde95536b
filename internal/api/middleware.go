package api

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/metrics"
	"alcyxob/adaptive-trainer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns handler panics into 500 responses and counts them.
func PanicRecovery(metricsManager *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("http: panic serving %s: %v\n%s", c.Request.URL.Path, r, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				abortWithError(c, http.StatusInternalServerError, "Internal server error")
			}
		}()

		// handler call
		c.Next()
	}
}

// RequestMetrics records request counts by method and status, and durations by route.
func RequestMetrics(metricsManager *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsManager.HistRequestDuration.WithLabelValues(route).Observe(time.Since(begin).Seconds())
		metricsManager.CounterRequests.With(
			prometheus.Labels{
				"method": c.Request.Method,
				"status": strconv.Itoa(c.Writer.Status()),
			},
		).Inc()
	}
}

// RequestLogger logs one line per request at debug level, or warn for 5xx responses.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(begin).String(),
			"ua":       c.Request.UserAgent(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// abortWithServiceError maps service sentinels to status codes. Anything unknown is a 500
// with the given message; the underlying error only goes to the log.
func abortWithServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrAthleteNotFound), errors.Is(err, service.ErrExportNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error(message)
		abortWithError(c, http.StatusInternalServerError, message)
	}
}

// dateQuery parses a YYYY-MM-DD query parameter. Missing values yield fallback.
func dateQuery(c *gin.Context, key string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+key+", expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}
