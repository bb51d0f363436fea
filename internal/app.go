// internal/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	router "upi-wallet/internal/api"
	"upi-wallet/internal/api/handler"
	"upi-wallet/internal/auth"
	"upi-wallet/internal/config"
	"upi-wallet/internal/repository"
	"upi-wallet/internal/repository/postgres"
	"upi-wallet/internal/service"
	"upi-wallet/internal/util"
	"upi-wallet/pkg/db"
	"upi-wallet/pkg/ratelimit"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	UserRepository       repository.UserRepository
	RechargeRepository   repository.RechargeRepository
	WithdrawalRepository repository.WithdrawalRepository
	AdminRepository      repository.AdminRepository

	// Services
	LedgerService   service.LedgerService
	IdentityService service.IdentityService
	Tokens          *auth.TokenManager

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and apply the schema
	database, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	if err := postgres.Migrate(ctx, app.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository()
	app.RechargeRepository = postgres.NewRechargeRepository()
	app.WithdrawalRepository = postgres.NewWithdrawalRepository()
	app.AdminRepository = postgres.NewAdminRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	app.LedgerService = service.NewLedgerService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor
		app.UserRepository,
		app.RechargeRepository,
		app.WithdrawalRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		service.LedgerConfig{AllowNegativeBalance: cfg.AllowNegativeBalance},
		app.Logger,
	)
	app.IdentityService = service.NewIdentityService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.AdminRepository,
		auth.NewBcryptHasher(cfg.BcryptCost),
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		service.IdentityConfig{
			ResetTokenTTL:  cfg.ResetTokenTTL,
			AdminSignupKey: cfg.AdminSignupKey,
		},
		app.Logger,
	)
	app.Tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	app.Logger.Info("Services initialized.")

	// 6. Rate limiter for the public auth routes
	limiter, err := app.newAuthLimiter(ctx)
	if err != nil {
		return err
	}

	// 7. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.Deps{
		Users:          handler.NewUserHandler(app.IdentityService, app.LedgerService, app.Tokens, app.Logger),
		Admins:         handler.NewAdminHandler(app.IdentityService, app.LedgerService, app.Tokens, app.Logger),
		Health:         handler.Health(app.DB, app.Logger),
		Tokens:         app.Tokens,
		AuthLimiter:    limiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         app.Logger,
	})
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

func (app *Application) newAuthLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	rc := app.Config.Redis
	if rc.Addr == "" {
		app.Logger.Info("Using in-process rate limiter.")
		return ratelimit.NewMemoryLimiter(app.Config.AuthRateLimit, app.Config.AuthRateWindow), nil
	}

	client, err := ratelimit.NewRedisClient(ctx, rc.Addr, rc.Password, rc.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.Redis = client
	app.Logger.Info("Redis connection established.", "addr", rc.Addr)
	return ratelimit.NewRedisLimiter(client, app.Config.AuthRateLimit, app.Config.AuthRateWindow, "ratelimit:auth:"), nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	var errs []error
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close redis connection", "error", err)
			errs = append(errs, fmt.Errorf("failed to close redis connection: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		} else {
			app.Logger.Info("Database connection closed.")
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
