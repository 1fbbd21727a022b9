package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    log "github.com/sirupsen/logrus"
)

// RequestLogger writes one structured log entry per request.  Server errors
// are logged at error level, client errors at warn level.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }

            req := c.Request()
            status := c.Response().Status
            entry := logger.WithFields(log.Fields{
                "method":     req.Method,
                "route":      c.Path(),
                "uri":        req.RequestURI,
                "status":     status,
                "latency_ms": time.Since(start).Milliseconds(),
                "remote_ip":  c.RealIP(),
                "user":       currentUserID(c),
            })
            switch {
            case status >= 500:
                entry.Error("request failed")
            case status >= 400:
                entry.Warn("request rejected")
            default:
                entry.Info("request served")
            }
            return nil
        }
    }
}
