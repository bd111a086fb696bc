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

type AssetHandler struct {
	Assets   *repository.AssetRepository
	Notifier *notifications.Hub
}

// NewAssetHandler создает обработчик активов.
func NewAssetHandler(assets *repository.AssetRepository, notifier *notifications.Hub) *AssetHandler {
	return &AssetHandler{Assets: assets, Notifier: notifier}
}

type AssetRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Value        decimal.Decimal `json:"value" validate:"required"`
	Type         string          `json:"type" validate:"required,oneof=liquid illiquid"`
	Category     string          `json:"category" validate:"omitempty,max=100"`
	PurchaseDate *string         `json:"purchase_date"`
}

// List возвращает активы пользователя. С include_inactive=true в выборку попадают и выбывшие.
func (h *AssetHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var assets []models.Asset
	var err error
	if c.QueryParam("include_inactive") == "true" {
		assets, err = h.Assets.List(c.Request().Context(), userID)
	} else {
		assets, err = h.Assets.ListActive(c.Request().Context(), userID)
	}
	if err != nil {
		return serverError(c)
	}

	if assets == nil {
		assets = []models.Asset{}
	}

	return c.JSON(http.StatusOK, map[string][]models.Asset{"assets": assets})
}

// Create добавляет актив.
func (h *AssetHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	asset, err := bindAsset(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.Assets.Create(c.Request().Context(), asset)
	if err != nil {
		return serverError(c)
	}

	publishFinanceEvent(h.Notifier, userID, notifications.EventAssetCreated, map[string]interface{}{
		"asset_id": created.ID.String(),
		"value":    created.Value.String(),
	})

	return c.JSON(http.StatusCreated, created)
}

// Update изменяет актив.
func (h *AssetHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid asset id")
	}

	asset, err := bindAsset(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	asset.ID = id

	updated, err := h.Assets.Update(c.Request().Context(), asset)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "asset not found")
		}
		return serverError(c)
	}

	publishFinanceEvent(h.Notifier, userID, notifications.EventAssetUpdated, map[string]interface{}{
		"asset_id": updated.ID.String(),
	})

	return c.JSON(http.StatusOK, updated)
}

// Deactivate помечает актив выбывшим: продажа или списание.
func (h *AssetHandler) Deactivate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid asset id")
	}

	asset, err := h.Assets.Deactivate(c.Request().Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "asset not found")
		}
		return serverError(c)
	}

	publishFinanceEvent(h.Notifier, userID, notifications.EventAssetDeactivated, map[string]interface{}{
		"asset_id": asset.ID.String(),
		"value":    asset.Value.String(),
	})

	return c.JSON(http.StatusOK, asset)
}

func bindAsset(c echo.Context, userID uuid.UUID) (models.Asset, error) {
	var req AssetRequest
	if err := c.Bind(&req); err != nil {
		return models.Asset{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return models.Asset{}, errors.New("validation failed")
	}

	if req.Value.Sign() < 0 {
		return models.Asset{}, errors.New("value must not be negative")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Asset{}, errors.New("name is required")
	}

	var purchaseDate *time.Time
	if req.PurchaseDate != nil && *req.PurchaseDate != "" {
		loc := timezone.FromContext(c.Request().Context())
		parsed, err := timezone.ParseLocalDate(*req.PurchaseDate, loc)
		if err != nil {
			return models.Asset{}, errors.New("invalid purchase date")
		}
		purchaseDate = &parsed
	}

	return models.Asset{
		UserID:       userID,
		Name:         name,
		Value:        req.Value,
		Type:         models.AssetType(req.Type),
		Category:     strings.TrimSpace(req.Category),
		PurchaseDate: purchaseDate,
	}, nil
}
