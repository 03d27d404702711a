package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"allgroub-ledger/internal/adapter/middleware"
	"allgroub-ledger/internal/domain/borrower"
	"allgroub-ledger/internal/domain/investor"
	"allgroub-ledger/internal/domain/role"
	ucDashboard "allgroub-ledger/internal/usecase/dashboard"
	"allgroub-ledger/pkg/dateutil"
)

// Env carries what every handler needs besides its use case.
type Env struct {
	Log *logrus.Logger
	// Location is where date-only query values (?at=2024-03-10) are anchored.
	Location *time.Location
}

func (e Env) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// parseAt turns the optional ?at= value into an evaluation time; "" yields the zero time.
func (e Env) parseAt(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, true
	}
	return dateutil.Parse(raw, e.location())
}

// bindAndValidate writes the 400/422 response itself and reports whether to continue.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// callerOf returns the caller set by middleware.CallerIdentity; routes are always
// registered behind it, so a missing caller is a wiring bug.
func callerOf(c echo.Context) (middleware.Caller, bool) {
	return middleware.CallerFrom(c)
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing caller identity"})
}

// fail maps domain errors onto HTTP codes. Unknown errors are logged and hidden.
func (e Env) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, borrower.ErrNotFound), errors.Is(err, investor.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, role.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, investor.ErrInsufficientFunds):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, investor.ErrInvalidTransaction), errors.Is(err, borrower.ErrNoSchedule):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ucDashboard.ErrInvalidCaller):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if e.Log != nil {
		e.Log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
