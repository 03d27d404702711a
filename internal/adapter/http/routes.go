package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "allgroub-ledger/internal/adapter/middleware"
	"allgroub-ledger/internal/domain/role"
)

type Routes struct {
	Health    *Handler
	Borrowers *BorrowerHandler
	Investors *InvestorHandler
	Dashboard *DashboardHandler
	// Metrics serves the prometheus exposition format; nil disables /metrics.
	Metrics http.Handler
	// Idempotency guards the mutating investor routes; nil disables it.
	Idempotency echo.MiddlewareFunc
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	guard := func(c role.Capability, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
		chain := []echo.MiddlewareFunc{mw.CallerIdentity(), mw.RequireCapability(c)}
		for _, m := range extra {
			if m != nil {
				chain = append(chain, m)
			}
		}
		return chain
	}

	e.GET("/borrowers/:borrower_id/status", r.Borrowers.GetStatus, guard(role.CapViewBorrowers)...)
	e.GET("/borrowers/:borrower_id/schedule", r.Borrowers.GetSchedule, guard(role.CapViewBorrowers)...)
	e.POST("/borrowers/:borrower_id/schedule", r.Borrowers.EnsureSchedule, guard(role.CapRecomputeFinancials, r.Idempotency)...)
	e.GET("/offices/:office_id/borrowers/status", r.Borrowers.ListOfficeStatuses, guard(role.CapViewBorrowers)...)

	e.GET("/investors/:investor_id/financials", r.Investors.GetFinancials, guard(role.CapViewFinancials)...)
	e.POST("/investors/:investor_id/recompute", r.Investors.Recompute, guard(role.CapRecomputeFinancials, r.Idempotency)...)
	e.POST("/investors/:investor_id/transactions", r.Investors.RecordTransaction, guard(role.CapRecordTransactions, r.Idempotency)...)

	// every role may open the dashboard; the snapshot itself is role-scoped
	e.GET("/dashboard", r.Dashboard.Get, mw.CallerIdentity())
}

// NewEcho returns an echo instance with the request validator installed.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	return e
}
