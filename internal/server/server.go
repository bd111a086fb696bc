package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/finance-tracker/backend/internal/auth"
	"example.com/finance-tracker/backend/internal/config"
	"example.com/finance-tracker/backend/internal/finance"
	"example.com/finance-tracker/backend/internal/handlers"
	"example.com/finance-tracker/backend/internal/notifications"
	"example.com/finance-tracker/backend/internal/repository"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	recurringRepo := repository.NewRecurringRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	notificationHub := notifications.NewHub()

	financeService := finance.NewService(
		transactionRepo,
		categoryRepo,
		assetRepo,
		debtRepo,
		accountRepo,
		snapshotRepo,
		recurringRepo,
	)

	authHandler := handlers.NewAuthHandler(userRepo, tokenRepo, tokenManager)
	transactionHandler := handlers.NewTransactionHandler(transactionRepo, notificationHub)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	assetHandler := handlers.NewAssetHandler(assetRepo, notificationHub)
	debtHandler := handlers.NewDebtHandler(debtRepo, notificationHub)
	accountHandler := handlers.NewAccountHandler(accountRepo)
	recurringHandler := handlers.NewRecurringHandler(recurringRepo)
	goalHandler := handlers.NewGoalHandler(goalRepo)
	reportHandler := handlers.NewReportHandler(financeService, snapshotRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationHub)

	registerRoutes(
		e,
		authHandler,
		transactionHandler,
		categoryHandler,
		assetHandler,
		debtHandler,
		accountHandler,
		recurringHandler,
		goalHandler,
		reportHandler,
		notificationHandler,
		auth.JWTMiddleware(tokenManager),
		authRateLimiter(cfg.Auth),
	)

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func authRateLimiter(cfg config.AuthConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
