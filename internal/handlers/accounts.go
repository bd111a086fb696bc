package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/auth"
	"example.com/finance-tracker/backend/internal/models"
	"example.com/finance-tracker/backend/internal/repository"
)

type AccountHandler struct {
	Accounts *repository.AccountRepository
}

// NewAccountHandler создает обработчик счетов.
func NewAccountHandler(accounts *repository.AccountRepository) *AccountHandler {
	return &AccountHandler{Accounts: accounts}
}

type AccountRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// List возвращает счета пользователя.
func (h *AccountHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	accounts, err := h.Accounts.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	if accounts == nil {
		accounts = []models.Account{}
	}

	return c.JSON(http.StatusOK, map[string][]models.Account{"accounts": accounts})
}

// Create добавляет счет.
func (h *AccountHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	account, err := bindAccount(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Accounts.Create(c.Request().Context(), account)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, created)
}

// Update изменяет имя и остаток счета.
func (h *AccountHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid account id")
	}

	account, err := bindAccount(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	account.ID = id

	updated, err := h.Accounts.Update(c.Request().Context(), account)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "account not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, updated)
}

// Deactivate выводит счет из оборота.
func (h *AccountHandler) Deactivate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid account id")
	}

	if err := h.Accounts.Deactivate(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "account not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func bindAccount(c echo.Context, userID uuid.UUID) (models.Account, error) {
	var req AccountRequest
	if err := c.Bind(&req); err != nil {
		return models.Account{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return models.Account{}, errors.New("validation failed")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Account{}, errors.New("name is required")
	}

	return models.Account{
		UserID:         userID,
		Name:           name,
		CurrentBalance: req.CurrentBalance,
	}, nil
}
