package middleware

import (
    "fmt"
    "net/http"
    "runtime/debug"

    "github.com/labstack/echo/v4"
    log "github.com/sirupsen/logrus"
)

// Recover turns a panicking handler into a SYSTEM_ERROR response and logs
// the stack.
func Recover(logger *log.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) (err error) {
            defer func() {
                r := recover()
                if r == nil {
                    return
                }
                if r == http.ErrAbortHandler {
                    panic(r)
                }
                logger.WithFields(log.Fields{
                    "panic": fmt.Sprint(r),
                    "route": c.Path(),
                    "stack": string(debug.Stack()),
                }).Error("handler panicked")
                err = c.JSON(http.StatusInternalServerError, echo.Map{"responseCode": "SYSTEM_ERROR", "message": "internal error"})
            }()
            return next(c)
        }
    }
}
