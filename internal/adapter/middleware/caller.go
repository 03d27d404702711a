package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"allgroub-ledger/internal/domain/role"
)

const (
	HeaderRole     = "Ax-Role"
	HeaderOfficeID = "Ax-Office-Id"

	callerKey = "ax.caller"
)

// Caller is the identity asserted by the gateway in front of this service.
type Caller struct {
	Role     role.Role
	OfficeID string
}

// Scope is the office the caller is confined to; "" means every office.
func (c Caller) Scope() string { return role.Scope(c.Role, c.OfficeID) }

// CallerIdentity reads Ax-Role / Ax-Office-Id and stores the caller on the context.
// Roles without CapViewAllOffices must name their office.
func CallerIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			r, err := role.Parse(req.Header.Get(HeaderRole))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or unknown Ax-Role"})
			}
			officeID := strings.TrimSpace(req.Header.Get(HeaderOfficeID))
			if officeID == "" && !role.Can(r, role.CapViewAllOffices) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing Ax-Office-Id"})
			}
			if len(officeID) > 32 {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid Ax-Office-Id"})
			}
			c.Set(callerKey, Caller{Role: r, OfficeID: officeID})
			return next(c)
		}
	}
}

// RequireCapability rejects callers whose role lacks cap.
func RequireCapability(cap role.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := CallerFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing caller identity"})
			}
			if !role.Can(caller.Role, cap) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

func CallerFrom(c echo.Context) (Caller, bool) {
	caller, ok := c.Get(callerKey).(Caller)
	return caller, ok
}

// WithCaller stores caller on c; handlers under test use it in place of CallerIdentity.
func WithCaller(c echo.Context, caller Caller) { c.Set(callerKey, caller) }
