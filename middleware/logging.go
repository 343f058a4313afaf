package middleware

import (
    "time"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/Mibrahim0941/DB-Project-Schedulify/metrics"
)

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger() gin.HandlerFunc {
    return func(c *gin.Context) {
        requestID := c.GetHeader("X-Request-ID")
        if requestID == "" {
            requestID = uuid.New().String()
        }
        c.Set("request_id", requestID)
        c.Header("X-Request-ID", requestID)

        start := time.Now()
        c.Next()
        duration := time.Since(start)

        event := log.Info()
        if c.Writer.Status() >= 500 {
            event = log.Error()
        }
        event.
            Str("request_id", requestID).
            Str("method", c.Request.Method).
            Str("path", c.Request.URL.Path).
            Int("status", c.Writer.Status()).
            Dur("duration", duration).
            Str("remote_addr", c.ClientIP()).
            Msg("request handled")
    }
}

// Metrics records the prometheus request counters.
func Metrics() gin.HandlerFunc {
    return func(c *gin.Context) {
        start := time.Now()
        c.Next()

        endpoint := c.FullPath()
        if endpoint == "" {
            endpoint = "unmatched"
        }
        metrics.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
    }
}
