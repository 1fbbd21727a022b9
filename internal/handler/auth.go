package handler

import (
    "crypto/subtle" // constant-time comparison of the login name
    "net/http"      // HTTP status codes and primitives
    "strings"       // string manipulation utilities

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing
    log "github.com/sirupsen/logrus"

    "github.com/iliyamo/movie-rental-api/internal/config" // app configuration
    "github.com/iliyamo/movie-rental-api/internal/utils"  // helper functions (hashing, token issuing)
)

// RoleAdmin is the role claim required by catalog mutations and statistics
// clearing.
const RoleAdmin = "ADMIN"

// AuthHandler issues admin access tokens.  There is a single admin account
// configured through ADMIN_USER and ADMIN_PASSWORD_HASH.
type AuthHandler struct {
    Cfg    config.Config
    Logger *log.Logger
}

func NewAuthHandler(cfg config.Config, logger *log.Logger) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Logger: logger}
}

type loginReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, http.StatusBadRequest, "invalid request body")
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return invalid(c, http.StatusBadRequest, "username/password required")
    }

    // bcrypt runs even for an unknown user so timing does not reveal it
    userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.Cfg.AdminUser)) == 1
    passOK := utils.VerifyPassword(h.Cfg.AdminPasswordHash, req.Password)
    if !userOK || !passOK {
        h.Logger.WithFields(log.Fields{"username": req.Username, "remote_ip": c.RealIP()}).Warn("admin login rejected")
        return invalid(c, http.StatusUnauthorized, "invalid credentials")
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, h.Cfg.AdminUser, RoleAdmin, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, Response{ResponseCode: CodeSystemError, Message: "could not issue token"})
    }
    return ok(c, http.StatusOK, access)
}
