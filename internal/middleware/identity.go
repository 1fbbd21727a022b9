package middleware

// identity.go holds the context keys JWTAuth fills and the helpers other
// middleware use to read them back.  Requests without a token are "anon".

import (
    "github.com/labstack/echo/v4"
)

const (
    ctxUserID = "user_id"
    ctxRole   = "role"
)

// currentUserID returns the authenticated subject or "anon".
func currentUserID(c echo.Context) string {
    if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
        return s
    }
    return "anon"
}

// deny aborts the request with the service's response envelope.
func deny(c echo.Context, status int, msg string) error {
    return c.JSON(status, echo.Map{"responseCode": "INVALID_REQUEST", "message": msg})
}
