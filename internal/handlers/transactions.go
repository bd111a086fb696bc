package handlers

import (
	"errors"
	"fmt"
	"net/http"
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

const dateLayout = "2006-01-02"

type TransactionHandler struct {
	Transactions *repository.TransactionRepository
	Notifier     *notifications.Hub
}

// NewTransactionHandler создает обработчик операций.
func NewTransactionHandler(transactions *repository.TransactionRepository, notifier *notifications.Hub) *TransactionHandler {
	return &TransactionHandler{Transactions: transactions, Notifier: notifier}
}

type TransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=income expense"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Description *string         `json:"description" validate:"omitempty,max=500"`
	Date        string          `json:"date" validate:"required"`
	IsRecurring bool            `json:"is_recurring"`
	FlowType    *string         `json:"flow_type" validate:"omitempty,oneof=operating investing financing"`
}

// List возвращает операции за период с фильтрами по типу и категории.
func (h *TransactionHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	start, end, err := periodFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var filter repository.TransactionFilter
	if value := c.QueryParam("type"); value != "" {
		txType := models.TransactionType(value)
		if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
			return badRequest(c, "invalid type filter")
		}
		filter.Type = &txType
	}
	if value := c.QueryParam("category_id"); value != "" {
		categoryID, err := uuid.Parse(value)
		if err != nil {
			return badRequest(c, "invalid category filter")
		}
		filter.CategoryID = &categoryID
	}

	transactions, err := h.Transactions.List(c.Request().Context(), userID, start, end, filter)
	if err != nil {
		return serverError(c)
	}

	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return c.JSON(http.StatusOK, map[string][]models.Transaction{"transactions": transactions})
}

// Create добавляет операцию.
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	transaction, err := h.bindTransaction(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Transactions.Create(c.Request().Context(), transaction)
	if err != nil {
		return serverError(c)
	}

	publishFinanceEvent(h.Notifier, userID, notifications.EventTransactionCreated, map[string]interface{}{
		"transaction_id": created.ID.String(),
		"amount":         created.Amount.String(),
		"type":           string(created.Type),
	})

	return c.JSON(http.StatusCreated, created)
}

// Update изменяет операцию.
func (h *TransactionHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	transaction, err := h.bindTransaction(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	transaction.ID = id

	updated, err := h.Transactions.Update(c.Request().Context(), transaction)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		return serverError(c)
	}

	publishFinanceEvent(h.Notifier, userID, notifications.EventTransactionUpdated, map[string]interface{}{
		"transaction_id": updated.ID.String(),
	})

	return c.JSON(http.StatusOK, updated)
}

// Delete удаляет операцию.
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	if err := h.Transactions.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		return serverError(c)
	}

	publishFinanceEvent(h.Notifier, userID, notifications.EventTransactionDeleted, map[string]interface{}{
		"transaction_id": id.String(),
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *TransactionHandler) bindTransaction(c echo.Context, userID uuid.UUID) (models.Transaction, error) {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return models.Transaction{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return models.Transaction{}, errors.New("validation failed")
	}

	if req.Amount.Sign() <= 0 {
		return models.Transaction{}, errors.New("amount must be positive")
	}

	loc := timezone.FromContext(c.Request().Context())
	date, err := timezone.ParseLocalDate(req.Date, loc)
	if err != nil {
		return models.Transaction{}, errors.New("invalid date")
	}

	var flowType *models.FlowType
	if req.FlowType != nil {
		value := models.FlowType(*req.FlowType)
		flowType = &value
	}

	return models.Transaction{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        models.TransactionType(req.Type),
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Date:        date,
		IsRecurring: req.IsRecurring,
		FlowType:    flowType,
	}, nil
}

// periodFromQuery разбирает границы периода из query-параметров.
// По умолчанию действует текущий месяц в зоне пользователя.
func periodFromQuery(c echo.Context) (time.Time, time.Time, error) {
	loc := timezone.FromContext(c.Request().Context())

	fromParam := c.QueryParam("from")
	toParam := c.QueryParam("to")

	if fromParam == "" && toParam == "" {
		start, end := timezone.MonthBounds(time.Now().In(loc))
		return start, end, nil
	}
	if fromParam == "" || toParam == "" {
		return time.Time{}, time.Time{}, errors.New("both from and to are required")
	}

	start, err := timezone.ParseLocalDate(fromParam, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: expected %s", dateLayout)
	}

	end, err := timezone.ParseLocalDate(toParam, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: expected %s", dateLayout)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("to must not precede from")
	}

	return start, end, nil
}

func publishFinanceEvent(hub *notifications.Hub, userID uuid.UUID, eventType string, data map[string]interface{}) {
	if hub == nil {
		return
	}

	hub.Publish(userID, notifications.Event{Type: eventType, Data: data})
}
