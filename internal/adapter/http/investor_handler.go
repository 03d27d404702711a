package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"allgroub-ledger/internal/usecase/investor"
)

type InvestorHandler struct {
	uc  *investor.Usecase
	env Env
}

func NewInvestorHandler(uc *investor.Usecase, env Env) *InvestorHandler {
	return &InvestorHandler{uc: uc, env: env}
}

type investorReq struct {
	InvestorID string `param:"investor_id" validate:"required,hex32"`
}

type recordTransactionReq struct {
	InvestorID    string          `param:"investor_id" json:"-" validate:"required,hex32"`
	Type          string          `json:"type" validate:"required,oneof=deposit withdrawal"`
	CapitalSource string          `json:"capital_source" validate:"required,oneof=installment grace"`
	Amount        decimal.Decimal `json:"amount" validate:"dec_positive,dec2"`
	Date          string          `json:"date" validate:"omitempty,date"`
	Description   string          `json:"description" validate:"max=255"`
}

// GET /investors/:investor_id/financials
func (h *InvestorHandler) GetFinancials(c echo.Context) error {
	caller, ok := callerOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req investorReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Financials(c.Request().Context(), req.InvestorID, caller.Scope())
	if err != nil {
		return h.env.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// POST /investors/:investor_id/recompute
func (h *InvestorHandler) Recompute(c echo.Context) error {
	caller, ok := callerOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req investorReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Recompute(c.Request().Context(), req.InvestorID, caller.Scope())
	if err != nil {
		return h.env.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// POST /investors/:investor_id/transactions
func (h *InvestorHandler) RecordTransaction(c echo.Context) error {
	caller, ok := callerOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req recordTransactionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RecordTransaction(c.Request().Context(), req.InvestorID, caller.Scope(), investor.RecordTransactionInput{
		Type:          req.Type,
		CapitalSource: req.CapitalSource,
		Amount:        req.Amount,
		Date:          req.Date,
		Description:   req.Description,
	})
	if err != nil {
		return h.env.fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}
