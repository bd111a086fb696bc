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

type GoalHandler struct {
	Goals *repository.GoalRepository
}

// NewGoalHandler создает обработчик финансовых целей.
func NewGoalHandler(goals *repository.GoalRepository) *GoalHandler {
	return &GoalHandler{Goals: goals}
}

type GoalRequest struct {
	Title         string          `json:"title" validate:"required,max=200"`
	TargetAmount  decimal.Decimal `json:"target_amount" validate:"required"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    *string         `json:"target_date"`
}

// List возвращает цели пользователя.
func (h *GoalHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	goals, err := h.Goals.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	if goals == nil {
		goals = []models.Goal{}
	}

	return c.JSON(http.StatusOK, map[string][]models.Goal{"goals": goals})
}

// Create добавляет цель.
func (h *GoalHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	goal, err := bindGoal(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Goals.Create(c.Request().Context(), goal)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, created)
}

// Update изменяет цель.
func (h *GoalHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid goal id")
	}

	goal, err := bindGoal(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	goal.ID = id

	updated, err := h.Goals.Update(c.Request().Context(), goal)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "goal not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, updated)
}

// Delete удаляет цель.
func (h *GoalHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid goal id")
	}

	if err := h.Goals.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "goal not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func bindGoal(c echo.Context, userID uuid.UUID) (models.Goal, error) {
	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return models.Goal{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return models.Goal{}, errors.New("validation failed")
	}

	if req.TargetAmount.Sign() <= 0 {
		return models.Goal{}, errors.New("target amount must be positive")
	}
	if req.CurrentAmount.Sign() < 0 {
		return models.Goal{}, errors.New("current amount must not be negative")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Goal{}, errors.New("title is required")
	}

	var targetDate *time.Time
	if req.TargetDate != nil && *req.TargetDate != "" {
		loc := timezone.FromContext(c.Request().Context())
		parsed, err := timezone.ParseLocalDate(*req.TargetDate, loc)
		if err != nil {
			return models.Goal{}, errors.New("invalid target date")
		}
		targetDate = &parsed
	}

	return models.Goal{
		UserID:        userID,
		Title:         title,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    targetDate,
	}, nil
}
