package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/practicas/core/internal/domain/entities"
)

// Request/Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResponse stamps message with the current time
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

const internalErrorMessage = "internal server error"

// StatusFor maps an error to its HTTP status and the message safe to show the client.
// A typed error decides the status even when it wraps one of echo's; bare echo
// errors keep their own status.
func StatusFor(err error) (int, string) {
	var e *entities.Error
	if !errors.As(err, &e) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if msg, ok := he.Message.(string); ok {
				return he.Code, msg
			}
			return he.Code, http.StatusText(he.Code)
		}
		return http.StatusInternalServerError, internalErrorMessage
	}

	switch e.Kind {
	case entities.KindValidation, entities.KindPrecondition, entities.KindMalformed:
		return http.StatusBadRequest, e.Message
	case entities.KindUnauthorized:
		return http.StatusUnauthorized, e.Message
	case entities.KindForbidden:
		return http.StatusForbidden, e.Message
	case entities.KindNotFound:
		return http.StatusNotFound, e.Message
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// bindBody decodes the request body into req
func bindBody(c echo.Context, req interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		if errors.Is(err, echo.ErrUnsupportedMediaType) {
			return entities.NewMalformedError("request body must be application/json", err)
		}
		return entities.NewMalformedError("invalid request body", err)
	}
	return nil
}

// bindQuery decodes query parameters into filter using its query tags
func bindQuery(c echo.Context, filter interface{}) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, filter); err != nil {
		return entities.NewMalformedError("invalid query parameters", err)
	}
	return nil
}

// parseID reads the :id path parameter
func parseID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, entities.NewMalformedError("id must be an integer", nil)
	}
	return id, nil
}

// requireQuery returns the named query parameter or a validation error when absent
func requireQuery(c echo.Context, name string) (string, error) {
	value := c.QueryParam(name)
	if value == "" {
		return "", entities.NewValidationError("%s query parameter is required", name)
	}
	return value, nil
}

// Hello godoc
// @Summary Greeting
// @Tags system
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /hola [get]
func Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "¡Hola desde el servidor de prácticas!"})
}
