package dashboard

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidConfig = errors.New("invalid profit config")

	hundred = decimal.NewFromInt(100)
)

// Config carries every percentage the metrics depend on. Offices may override any of
// them, so nothing here has an implicit default inside the engine.
type Config struct {
	// Investor share of the profit generated by installment loans, 0-100.
	InstallmentInvestorSharePct decimal.Decimal `json:"installment_investor_share_pct"`
	// Investor share of the profit generated by grace-period loans, 0-100.
	GraceInvestorSharePct decimal.Decimal `json:"grace_investor_share_pct"`
	// Maximum monthly installment as a percentage of the borrower's salary, 0-100.
	SalaryRepaymentPct decimal.Decimal `json:"salary_repayment_pct"`
}

func (c Config) Validate() error {
	for name, v := range map[string]decimal.Decimal{
		"installment investor share": c.InstallmentInvestorSharePct,
		"grace investor share":       c.GraceInvestorSharePct,
		"salary repayment":           c.SalaryRepaymentPct,
	} {
		if v.IsNegative() || v.GreaterThan(hundred) {
			return fmt.Errorf("%w: %s %s%% outside 0-100", ErrInvalidConfig, name, v)
		}
	}
	return nil
}

func (c Config) InstallmentInstitutionSharePct() decimal.Decimal {
	return hundred.Sub(c.InstallmentInvestorSharePct)
}

func (c Config) GraceInstitutionSharePct() decimal.Decimal {
	return hundred.Sub(c.GraceInvestorSharePct)
}
