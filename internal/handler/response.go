package handler // handler contains the HTTP handlers and the shared response envelope

import (
    "errors"   // errors.Is maps sentinel errors to status codes
    "net/http" // http provides status code constants

    "github.com/labstack/echo/v4" // echo is the web framework used for handlers

    "github.com/iliyamo/movie-rental-api/internal/repository" // repository defines the error taxonomy
)

// Response codes carried in every envelope.
const (
    CodeOK             = "OK"
    CodeInvalidRequest = "INVALID_REQUEST"
    CodeSystemError    = "SYSTEM_ERROR"
)

// Response is the envelope every endpoint answers with.  Data holds the
// payload on success; Message explains a failure.
type Response struct {
    ResponseCode string `json:"responseCode"`
    Message      string `json:"message,omitempty"`
    Data         any    `json:"data,omitempty"`
}

// ok writes a successful envelope.
func ok(c echo.Context, status int, data any) error {
    return c.JSON(status, Response{ResponseCode: CodeOK, Data: data})
}

// invalid writes a client error envelope.
func invalid(c echo.Context, status int, msg string) error {
    return c.JSON(status, Response{ResponseCode: CodeInvalidRequest, Message: msg})
}

// fail maps an error from the repositories or the service onto a status
// code.  Storage failures never leak their cause to the client.
func fail(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrPersistence):
        c.Logger().Error(err) // the repository already logged the details
        return c.JSON(http.StatusInternalServerError, Response{ResponseCode: CodeSystemError, Message: "changes could not be saved"})
    case errors.Is(err, repository.ErrNotFound):
        return invalid(c, http.StatusNotFound, err.Error())
    case errors.Is(err, repository.ErrOrderAlreadyClosed):
        return invalid(c, http.StatusConflict, err.Error())
    case errors.Is(err, repository.ErrValidation), errors.Is(err, repository.ErrMovieIDNotUnique):
        return invalid(c, http.StatusBadRequest, err.Error())
    default:
        return c.JSON(http.StatusInternalServerError, Response{ResponseCode: CodeSystemError, Message: "internal error"})
    }
}
