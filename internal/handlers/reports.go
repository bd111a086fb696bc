package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/finance-tracker/backend/internal/auth"
	"example.com/finance-tracker/backend/internal/finance"
	"example.com/finance-tracker/backend/internal/models"
	"example.com/finance-tracker/backend/internal/repository"
	"example.com/finance-tracker/backend/internal/timezone"
)

type ReportHandler struct {
	Finance   *finance.Service
	Snapshots *repository.SnapshotRepository
}

// NewReportHandler создает обработчик финансовых отчетов.
func NewReportHandler(service *finance.Service, snapshots *repository.SnapshotRepository) *ReportHandler {
	return &ReportHandler{Finance: service, Snapshots: snapshots}
}

// IncomeStatement возвращает отчет о доходах и расходах за период.
func (h *ReportHandler) IncomeStatement(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	start, end, err := periodFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	statement, err := h.Finance.IncomeStatement(c.Request().Context(), userID, start, end)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, statement)
}

// BalanceSheet возвращает балансовый отчет на дату, по умолчанию на сегодня.
func (h *ReportHandler) BalanceSheet(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	asOf, err := dateFromQuery(c, "as_of")
	if err != nil {
		return badRequest(c, err.Error())
	}

	sheet, err := h.Finance.BalanceSheet(c.Request().Context(), userID, asOf)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, sheet)
}

// CashFlow возвращает отчет о движении денежных средств за период.
func (h *ReportHandler) CashFlow(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	start, end, err := periodFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	statement, err := h.Finance.CashFlowStatement(c.Request().Context(), userID, start, end)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, statement)
}

// BudgetSummary возвращает бюджетную сводку текущего месяца.
func (h *ReportHandler) BudgetSummary(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	summary, err := h.Finance.BudgetSummary(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, summary)
}

// KPIs возвращает ключевые показатели финансового здоровья.
func (h *ReportHandler) KPIs(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	kpis, err := h.Finance.KPIs(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, kpis)
}

// Dashboard возвращает сводку всех отчетов за текущий месяц.
func (h *ReportHandler) Dashboard(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	dashboard, err := h.Finance.Dashboard(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, dashboard)
}

// CreateSnapshot фиксирует балансовый снимок на дату, по умолчанию на сегодня.
func (h *ReportHandler) CreateSnapshot(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	date, err := dateFromQuery(c, "date")
	if err != nil {
		return badRequest(c, err.Error())
	}

	snapshot, err := h.Finance.CreateSnapshot(c.Request().Context(), userID, date)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, snapshot)
}

// ListSnapshots возвращает сохраненные снимки пользователя.
func (h *ReportHandler) ListSnapshots(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	snapshots, err := h.Snapshots.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	if snapshots == nil {
		snapshots = []models.FinancialSnapshot{}
	}

	return c.JSON(http.StatusOK, map[string][]models.FinancialSnapshot{"snapshots": snapshots})
}

// dateFromQuery разбирает дату из query-параметра, по умолчанию сегодня
// в зоне пользователя.
func dateFromQuery(c echo.Context, param string) (time.Time, error) {
	loc := timezone.FromContext(c.Request().Context())

	value := c.QueryParam(param)
	if value == "" {
		return time.Now().In(loc), nil
	}

	return timezone.ParseLocalDate(value, loc)
}
