package role

import (
	"errors"
	"strings"
)

var (
	ErrUnknownRole = errors.New("unknown role")
	ErrForbidden   = errors.New("outside caller scope")
)

type Role string

const (
	SystemAdmin      Role = "system_admin"
	OfficeManager    Role = "office_manager"
	AssistantManager Role = "assistant_manager"
	Employee         Role = "employee"
	Investor         Role = "investor"
)

type Capability string

const (
	CapViewAllOffices      Capability = "view_all_offices"
	CapViewBorrowers       Capability = "view_borrowers"
	CapViewInvestorMetrics Capability = "view_investor_metrics"
	CapViewManagerMetrics  Capability = "view_manager_metrics"
	CapViewFinancials      Capability = "view_financials"
	CapRecomputeFinancials Capability = "recompute_financials"
	CapRecordTransactions  Capability = "record_transactions"
)

// capabilities maps each role onto the capabilities it holds. Roles not listed here have none.
var capabilities = map[Role]map[Capability]struct{}{
	SystemAdmin: set(
		CapViewAllOffices, CapViewBorrowers, CapViewInvestorMetrics, CapViewManagerMetrics,
		CapViewFinancials, CapRecomputeFinancials, CapRecordTransactions,
	),
	OfficeManager: set(
		CapViewBorrowers, CapViewInvestorMetrics, CapViewManagerMetrics,
		CapViewFinancials, CapRecomputeFinancials, CapRecordTransactions,
	),
	AssistantManager: set(
		CapViewBorrowers, CapViewManagerMetrics, CapViewFinancials, CapRecordTransactions,
	),
	Employee: set(CapViewBorrowers),
	Investor: set(CapViewInvestorMetrics, CapViewFinancials),
}

func set(caps ...Capability) map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return m
}

// Parse maps a header/config value onto the closed Role set.
func Parse(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := capabilities[r]; !ok {
		return "", ErrUnknownRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// Can reports whether r holds capability c.
func Can(r Role, c Capability) bool {
	_, ok := capabilities[r][c]
	return ok
}

// Scope is the office a caller is confined to; "" means every office.
func Scope(r Role, officeID string) string {
	if Can(r, CapViewAllOffices) {
		return ""
	}
	return officeID
}

// InScope reports whether a record of officeID is visible within scope.
func InScope(scope, officeID string) bool {
	return scope == "" || scope == officeID
}
