package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// validationBody matches the express-validator style error envelope:
// {"errors": [{"msg": "...", "param": "..."}]}.
type validationBody struct {
	Errors []FieldError `json:"errors"`
}

type messageBody struct {
	Message string `json:"message"`
}

// Handler returns an echo.HTTPErrorHandler that maps the error taxonomy to
// JSON responses. Unexpected errors are logged with the request id and
// surfaced as a generic 500.
func Handler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		var body interface{} = messageBody{Message: "Server error"}

		var he *Error
		var ee *echo.HTTPError
		switch {
		case errors.As(err, &he):
			status = he.Status
			if len(he.Fields) > 0 {
				body = validationBody{Errors: he.Fields}
			} else {
				body = messageBody{Message: he.Message}
			}
			if he.Internal != nil {
				rid, _ := c.Get("request_id").(string)
				logger.Error().
					Err(he.Internal).
					Str("request_id", rid).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Msg("request failed")
			}
		case errors.As(err, &ee):
			status = ee.Code
			if msg, ok := ee.Message.(string); ok {
				body = messageBody{Message: msg}
			} else {
				body = messageBody{Message: http.StatusText(ee.Code)}
			}
		default:
			rid, _ := c.Get("request_id").(string)
			logger.Error().
				Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
