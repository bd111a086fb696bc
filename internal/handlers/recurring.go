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
	"example.com/finance-tracker/backend/internal/repository"
	"example.com/finance-tracker/backend/internal/timezone"
)

type RecurringHandler struct {
	Recurring *repository.RecurringRepository
}

// NewRecurringHandler создает обработчик регулярных потоков.
func NewRecurringHandler(recurring *repository.RecurringRepository) *RecurringHandler {
	return &RecurringHandler{Recurring: recurring}
}

type RecurringRequest struct {
	Name      string          `json:"name" validate:"required,max=200"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Frequency string          `json:"frequency" validate:"required,oneof=weekly biweekly monthly annual"`
	Category  string          `json:"category" validate:"required,max=100"`
	IsActive  *bool           `json:"is_active"`
	StartDate string          `json:"start_date" validate:"required"`
	EndDate   *string         `json:"end_date"`
}

type recurringFields struct {
	Name      string
	Amount    decimal.Decimal
	Frequency models.Frequency
	Category  string
	IsActive  bool
	StartDate time.Time
	EndDate   *time.Time
}

// ListIncomeSources возвращает источники дохода пользователя.
func (h *RecurringHandler) ListIncomeSources(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	sources, err := h.Recurring.ListIncomeSources(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	if sources == nil {
		sources = []models.IncomeSource{}
	}

	return c.JSON(http.StatusOK, map[string][]models.IncomeSource{"income_sources": sources})
}

// CreateIncomeSource добавляет источник дохода.
func (h *RecurringHandler) CreateIncomeSource(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	fields, err := bindRecurring(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Recurring.CreateIncomeSource(c.Request().Context(), models.IncomeSource{
		UserID:    userID,
		Name:      fields.Name,
		Amount:    fields.Amount,
		Frequency: fields.Frequency,
		Category:  fields.Category,
		StartDate: fields.StartDate,
		EndDate:   fields.EndDate,
	})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateIncomeSource изменяет источник дохода.
func (h *RecurringHandler) UpdateIncomeSource(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid income source id")
	}

	fields, err := bindRecurring(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.Recurring.UpdateIncomeSource(c.Request().Context(), models.IncomeSource{
		ID:        id,
		UserID:    userID,
		Name:      fields.Name,
		Amount:    fields.Amount,
		Frequency: fields.Frequency,
		Category:  fields.Category,
		IsActive:  fields.IsActive,
		StartDate: fields.StartDate,
		EndDate:   fields.EndDate,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "income source not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteIncomeSource удаляет источник дохода.
func (h *RecurringHandler) DeleteIncomeSource(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid income source id")
	}

	if err := h.Recurring.DeleteIncomeSource(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "income source not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListRecurringExpenses возвращает регулярные расходы пользователя.
func (h *RecurringHandler) ListRecurringExpenses(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	expenses, err := h.Recurring.ListRecurringExpenses(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	if expenses == nil {
		expenses = []models.RecurringExpense{}
	}

	return c.JSON(http.StatusOK, map[string][]models.RecurringExpense{"recurring_expenses": expenses})
}

// CreateRecurringExpense добавляет регулярный расход.
func (h *RecurringHandler) CreateRecurringExpense(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	fields, err := bindRecurring(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Recurring.CreateRecurringExpense(c.Request().Context(), models.RecurringExpense{
		UserID:    userID,
		Name:      fields.Name,
		Amount:    fields.Amount,
		Frequency: fields.Frequency,
		Category:  fields.Category,
		StartDate: fields.StartDate,
		EndDate:   fields.EndDate,
	})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateRecurringExpense изменяет регулярный расход.
func (h *RecurringHandler) UpdateRecurringExpense(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid recurring expense id")
	}

	fields, err := bindRecurring(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.Recurring.UpdateRecurringExpense(c.Request().Context(), models.RecurringExpense{
		ID:        id,
		UserID:    userID,
		Name:      fields.Name,
		Amount:    fields.Amount,
		Frequency: fields.Frequency,
		Category:  fields.Category,
		IsActive:  fields.IsActive,
		StartDate: fields.StartDate,
		EndDate:   fields.EndDate,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "recurring expense not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteRecurringExpense удаляет регулярный расход.
func (h *RecurringHandler) DeleteRecurringExpense(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid recurring expense id")
	}

	if err := h.Recurring.DeleteRecurringExpense(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "recurring expense not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func bindRecurring(c echo.Context) (recurringFields, error) {
	var req RecurringRequest
	if err := c.Bind(&req); err != nil {
		return recurringFields{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return recurringFields{}, errors.New("validation failed")
	}

	if req.Amount.Sign() <= 0 {
		return recurringFields{}, errors.New("amount must be positive")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return recurringFields{}, errors.New("name is required")
	}

	loc := timezone.FromContext(c.Request().Context())
	startDate, err := timezone.ParseLocalDate(req.StartDate, loc)
	if err != nil {
		return recurringFields{}, errors.New("invalid start date")
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := timezone.ParseLocalDate(*req.EndDate, loc)
		if err != nil {
			return recurringFields{}, errors.New("invalid end date")
		}
		endDate = &parsed
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return recurringFields{
		Name:      name,
		Amount:    req.Amount,
		Frequency: models.Frequency(req.Frequency),
		Category:  strings.TrimSpace(req.Category),
		IsActive:  isActive,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}
