package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"allgroub-ledger/internal/domain/role"
	"allgroub-ledger/internal/usecase/borrower"
)

type BorrowerHandler struct {
	uc  *borrower.Usecase
	env Env
}

func NewBorrowerHandler(uc *borrower.Usecase, env Env) *BorrowerHandler {
	return &BorrowerHandler{uc: uc, env: env}
}

type borrowerStatusReq struct {
	BorrowerID string `param:"borrower_id" validate:"required,hex32"`
	At         string `query:"at" validate:"omitempty,date"`
}

type borrowerReq struct {
	BorrowerID string `param:"borrower_id" validate:"required,hex32"`
}

type officeStatusesReq struct {
	OfficeID string `param:"office_id" validate:"required,max=32"`
	At       string `query:"at" validate:"omitempty,date"`
}

type officeStatusesResp struct {
	OfficeID  string               `json:"office_id"`
	Count     int                  `json:"count"`
	Borrowers []borrower.StatusDTO `json:"borrowers"`
}

// GET /borrowers/:borrower_id/status?at=
func (h *BorrowerHandler) GetStatus(c echo.Context) error {
	caller, ok := callerOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req borrowerStatusReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	at, _ := h.env.parseAt(req.At)

	dto, err := h.uc.Status(c.Request().Context(), req.BorrowerID, caller.Scope(), at)
	if err != nil {
		return h.env.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// GET /offices/:office_id/borrowers/status?at=
func (h *BorrowerHandler) ListOfficeStatuses(c echo.Context) error {
	caller, ok := callerOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req officeStatusesReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if !role.InScope(caller.Scope(), req.OfficeID) {
		return h.env.fail(c, role.ErrForbidden)
	}
	at, _ := h.env.parseAt(req.At)

	rows, err := h.uc.ListStatuses(c.Request().Context(), req.OfficeID, at)
	if err != nil {
		return h.env.fail(c, err)
	}
	return c.JSON(http.StatusOK, officeStatusesResp{OfficeID: req.OfficeID, Count: len(rows), Borrowers: rows})
}

// GET /borrowers/:borrower_id/schedule
func (h *BorrowerHandler) GetSchedule(c echo.Context) error {
	caller, ok := callerOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req borrowerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Schedule(c.Request().Context(), req.BorrowerID, caller.Scope())
	if err != nil {
		return h.env.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// POST /borrowers/:borrower_id/schedule
func (h *BorrowerHandler) EnsureSchedule(c echo.Context) error {
	caller, ok := callerOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req borrowerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.EnsureSchedule(c.Request().Context(), req.BorrowerID, caller.Scope())
	if err != nil {
		return h.env.fail(c, err)
	}
	code := http.StatusOK
	if dto.Created {
		code = http.StatusCreated
	}
	return c.JSON(code, dto)
}
