package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/finance-tracker/backend/internal/auth"
	"example.com/finance-tracker/backend/internal/models"
	"example.com/finance-tracker/backend/internal/repository"
)

type CategoryHandler struct {
	Categories *repository.CategoryRepository
}

// NewCategoryHandler создает обработчик категорий операций.
func NewCategoryHandler(categories *repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type CategoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Emoji string `json:"emoji" validate:"omitempty,max=8"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Type  string `json:"type" validate:"required,oneof=income expense both"`
}

// List возвращает категории пользователя.
func (h *CategoryHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	categories, err := h.Categories.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	if categories == nil {
		categories = []models.TransactionCategory{}
	}

	return c.JSON(http.StatusOK, map[string][]models.TransactionCategory{"categories": categories})
}

// Create добавляет категорию.
func (h *CategoryHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	category, err := bindCategory(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Categories.Create(c.Request().Context(), category)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "category already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, created)
}

// Update изменяет категорию.
func (h *CategoryHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	category, err := bindCategory(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	category.ID = id

	updated, err := h.Categories.Update(c.Request().Context(), category)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "category not found")
		}
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "category already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, updated)
}

// Delete удаляет категорию. Категория с операциями не удаляется.
func (h *CategoryHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	if err := h.Categories.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "category not found")
		}
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "category is in use")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func bindCategory(c echo.Context, userID uuid.UUID) (models.TransactionCategory, error) {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return models.TransactionCategory{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return models.TransactionCategory{}, errors.New("validation failed")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.TransactionCategory{}, errors.New("name is required")
	}

	return models.TransactionCategory{
		UserID: userID,
		Name:   name,
		Emoji:  req.Emoji,
		Color:  req.Color,
		Type:   models.CategoryType(req.Type),
	}, nil
}
