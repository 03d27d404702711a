package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"allgroub-ledger/internal/infrastructure/metrics"
)

// Metrics records request count and latency per route template.
func Metrics(m *metrics.Collectors) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "unmatched"
			}
			method := c.Request().Method
			m.HTTPLatency.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
			m.HTTPRequests.WithLabelValues(method, endpoint, strconv.Itoa(c.Response().Status)).Inc()
			return nil
		}
	}
}
