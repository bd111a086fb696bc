package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/auth"
	"example.com/finance-tracker/backend/internal/models"
	"example.com/finance-tracker/backend/internal/notifications"
	"example.com/finance-tracker/backend/internal/repository"
	"example.com/finance-tracker/backend/internal/timezone"
)

type DebtHandler struct {
	Debts    *repository.DebtRepository
	Notifier *notifications.Hub
}

// NewDebtHandler создает обработчик долгов.
func NewDebtHandler(debts *repository.DebtRepository, notifier *notifications.Hub) *DebtHandler {
	return &DebtHandler{Debts: debts, Notifier: notifier}
}

type DebtRequest struct {
	Creditor       string          `json:"creditor" validate:"required,max=200"`
	TotalAmount    decimal.Decimal `json:"total_amount" validate:"required"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	AnnualRate     decimal.Decimal `json:"annual_rate"`
	Type           string          `json:"type" validate:"required,oneof=loan mortgage credit_card personal other"`
	StartDate      string          `json:"start_date" validate:"required"`
	EndDate        *string         `json:"end_date"`
}

type DebtPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Date   string          `json:"date" validate:"required"`
}

// List возвращает долги пользователя. С include_paid=true в выборку попадают и погашенные.
func (h *DebtHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var debts []models.Debt
	var err error
	if c.QueryParam("include_paid") == "true" {
		debts, err = h.Debts.List(c.Request().Context(), userID)
	} else {
		debts, err = h.Debts.ListActive(c.Request().Context(), userID)
	}
	if err != nil {
		return serverError(c)
	}

	if debts == nil {
		debts = []models.Debt{}
	}

	return c.JSON(http.StatusOK, map[string][]models.Debt{"debts": debts})
}

// Create добавляет долг.
func (h *DebtHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	debt, err := bindDebt(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Debts.Create(c.Request().Context(), debt)
	if err != nil {
		return serverError(c)
	}

	publishFinanceEvent(h.Notifier, userID, notifications.EventDebtCreated, map[string]interface{}{
		"debt_id":      created.ID.String(),
		"total_amount": created.TotalAmount.String(),
	})

	return c.JSON(http.StatusCreated, created)
}

// Update изменяет условия долга.
func (h *DebtHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid debt id")
	}

	debt, err := bindDebt(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	debt.ID = id

	current, err := h.Debts.GetByID(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "debt not found")
		}
		return serverError(c)
	}
	debt.RemainingAmount = current.RemainingAmount

	updated, err := h.Debts.Update(c.Request().Context(), debt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "debt not found")
		}
		return serverError(c)
	}

	publishFinanceEvent(h.Notifier, userID, notifications.EventDebtUpdated, map[string]interface{}{
		"debt_id": updated.ID.String(),
	})

	return c.JSON(http.StatusOK, updated)
}

// RecordPayment фиксирует платеж по долгу.
func (h *DebtHandler) RecordPayment(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid debt id")
	}

	var req DebtPaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	loc := timezone.FromContext(c.Request().Context())
	paidOn, err := timezone.ParseLocalDate(req.Date, loc)
	if err != nil {
		return badRequest(c, "invalid date")
	}

	debt, err := h.Debts.RecordPayment(c.Request().Context(), userID, id, req.Amount, paidOn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "debt not found")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "amount must be positive")
		}
		return serverError(c)
	}

	publishFinanceEvent(h.Notifier, userID, notifications.EventDebtPayment, map[string]interface{}{
		"debt_id":   debt.ID.String(),
		"remaining": debt.RemainingAmount.String(),
		"status":    string(debt.Status),
	})

	return c.JSON(http.StatusOK, debt)
}

// MarkPaid закрывает долг целиком.
func (h *DebtHandler) MarkPaid(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid debt id")
	}

	loc := timezone.FromContext(c.Request().Context())
	paidOn := time.Now().In(loc)
	if value := c.QueryParam("date"); value != "" {
		paidOn, err = timezone.ParseLocalDate(value, loc)
		if err != nil {
			return badRequest(c, "invalid date")
		}
	}

	debt, err := h.Debts.MarkPaid(c.Request().Context(), userID, id, paidOn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "debt not found")
		}
		return serverError(c)
	}

	publishFinanceEvent(h.Notifier, userID, notifications.EventDebtPaid, map[string]interface{}{
		"debt_id": debt.ID.String(),
	})

	return c.JSON(http.StatusOK, debt)
}

// Delete удаляет долг.
func (h *DebtHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid debt id")
	}

	if err := h.Debts.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "debt not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func bindDebt(c echo.Context, userID uuid.UUID) (models.Debt, error) {
	var req DebtRequest
	if err := c.Bind(&req); err != nil {
		return models.Debt{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return models.Debt{}, errors.New("validation failed")
	}

	if req.TotalAmount.Sign() <= 0 {
		return models.Debt{}, errors.New("total amount must be positive")
	}
	if req.MonthlyPayment.Sign() < 0 || req.AnnualRate.Sign() < 0 {
		return models.Debt{}, errors.New("payment and rate must not be negative")
	}

	creditor := strings.TrimSpace(req.Creditor)
	if creditor == "" {
		return models.Debt{}, errors.New("creditor is required")
	}

	loc := timezone.FromContext(c.Request().Context())
	startDate, err := timezone.ParseLocalDate(req.StartDate, loc)
	if err != nil {
		return models.Debt{}, errors.New("invalid start date")
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := timezone.ParseLocalDate(*req.EndDate, loc)
		if err != nil {
			return models.Debt{}, errors.New("invalid end date")
		}
		if parsed.Before(startDate) {
			return models.Debt{}, errors.New("end date must not precede start date")
		}
		endDate = &parsed
	}

	return models.Debt{
		UserID:         userID,
		Creditor:       creditor,
		TotalAmount:    req.TotalAmount,
		MonthlyPayment: req.MonthlyPayment,
		AnnualRate:     req.AnnualRate,
		Type:           models.DebtType(req.Type),
		StartDate:      startDate,
		EndDate:        endDate,
	}, nil
}
