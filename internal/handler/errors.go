package handler

import (
	"errors"
	"net/http"

	"idportal/internal/middleware"
	"idportal/internal/service"
	"idportal/internal/validation"
	"idportal/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors to the response envelope. Unexpected errors
// are attached to the gin context for the request logger and reported
// generically.
func writeError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, response.Invalid(verrs))
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrEmployeeNotFound),
		errors.Is(err, service.ErrFileNotFound),
		errors.Is(err, service.ErrStatusNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrDuplicateAdmin):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrEmptySelection),
		errors.Is(err, service.ErrInvalidFileSlot),
		errors.Is(err, service.ErrInvalidFilePath),
		errors.Is(err, service.ErrMalformedDOB):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidLogin),
		errors.Is(err, service.ErrInvalidEmailFormat),
		errors.Is(err, service.ErrLoginFailed):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAdmin):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrSubmissionFailed):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, response.Response{
			Status:     "error",
			StatusCode: http.StatusInternalServerError,
			Error:      err.Error(),
			Errors:     map[string][]string{validation.FormField: {err.Error()}},
		})
		return
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, response.Error(status, "Internal server error"))
		return
	}
	c.JSON(status, response.Error(status, err.Error()))
}

// bindError reports a malformed request body.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}

// actorFromContext identifies the signed-in admin for audit entries.
func actorFromContext(c *gin.Context) service.Actor {
	session := middleware.SessionFromContext(c)
	if !session.Authenticated() {
		return service.Actor{}
	}
	return service.Actor{UserID: session.User.ID, Email: session.User.Email}
}
