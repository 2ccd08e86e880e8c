package api

import (
	"context"
	"net/http"

	"Natalis/pkg/errors"
	xhttp "Natalis/pkg/http"
)

// toAppError maps chart failures onto transport errors. A missing angle or
// house block and upstream failures are the provider's fault, hence 502.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, errors.ErrInvalidInput):
		return xhttp.NewAppError("ERR_INVALID_INPUT", "", err.Error(), http.StatusBadRequest).WithError(err)
	case errors.Is(err, errors.ErrFatalPipeline):
		return xhttp.NewAppError("ERR_FATAL_PIPELINE", "houses", "angle/house block unavailable", http.StatusBadGateway).WithError(err)
	case errors.Is(err, errors.ErrUpstreamComputation):
		return xhttp.UpstreamError("ephemeris provider failed").WithError(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return xhttp.NewAppError("ERR_TIMEOUT", "", "chart computation timed out", http.StatusGatewayTimeout).WithError(err)
	default:
		return xhttp.InternalError("chart computation failed").WithError(err)
	}
}
