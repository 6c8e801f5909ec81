package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rshade/biogas-balance/internal/export"
	"github.com/rshade/biogas-balance/internal/feedstock"
	"github.com/rshade/biogas-balance/internal/scenario"
	"github.com/rshade/biogas-balance/internal/water"
)

// errorResponse is the JSON body of every non-2xx API response.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Index *int   `json:"index,omitempty"`
	Value any    `json:"value,omitempty"`
}

// statusFor maps engine errors to an HTTP status and response body.
// The second return value is false for errors the engine does not own.
func statusFor(err error) (int, errorResponse, bool) {
	var verr *feedstock.ValidationError
	if errors.As(err, &verr) {
		body := errorResponse{Error: err.Error(), Field: verr.Field}
		if verr.Index >= 0 {
			idx := verr.Index
			body.Index = &idx
			body.Value = jsonValue(verr.Value)
		}
		return http.StatusUnprocessableEntity, body, true
	}

	var cerr *water.ConfigurationError
	if errors.As(err, &cerr) {
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Field: cerr.Field, Value: jsonValue(cerr.Value)}, true
	}

	switch {
	case errors.Is(err, scenario.ErrMissingFeed), errors.Is(err, scenario.ErrNoFeedstocks):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}, true
	case errors.Is(err, scenario.ErrUnknownPreset), errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}, true
	}

	return 0, errorResponse{}, false
}

// jsonValue renders non-finite floats as strings.
func jsonValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}

// errorHandler renders echo and engine errors as JSON. Anything else goes to
// echo's default handler as a 500.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			code int
			body errorResponse
		)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			body = errorResponse{Error: http.StatusText(code)}
			if msg, isString := he.Message.(string); isString {
				body.Error = msg
			}
		} else {
			var ok bool
			code, body, ok = statusFor(err)
			if !ok {
				zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("unhandled error")
				e.DefaultHTTPErrorHandler(err, c)
				return
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, body)
		}
		if writeErr != nil {
			zerolog.Ctx(c.Request().Context()).Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}
