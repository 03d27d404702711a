package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"allgroub-ledger/internal/usecase/dashboard"
)

type DashboardHandler struct {
	uc  *dashboard.Usecase
	env Env
}

func NewDashboardHandler(uc *dashboard.Usecase, env Env) *DashboardHandler {
	return &DashboardHandler{uc: uc, env: env}
}

type dashboardReq struct {
	OfficeID string `query:"office_id" validate:"omitempty,max=32"`
	At       string `query:"at" validate:"omitempty,date"`
}

// GET /dashboard?office_id=&at=
func (h *DashboardHandler) Get(c echo.Context) error {
	caller, ok := callerOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req dashboardReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	at, _ := h.env.parseAt(req.At)

	dto, err := h.uc.Aggregate(c.Request().Context(), dashboard.AggregateInput{
		Role:           string(caller.Role),
		CallerOfficeID: caller.OfficeID,
		OfficeID:       req.OfficeID,
		At:             at,
	})
	if err != nil {
		return h.env.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
