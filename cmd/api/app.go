package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"staffadmin/internal/config"
	"staffadmin/internal/database"
	"staffadmin/internal/logger"
	"staffadmin/internal/permission"
	"staffadmin/internal/preference"
	"staffadmin/internal/repository"
	"staffadmin/internal/server"
	"staffadmin/internal/service"
	"staffadmin/internal/session"
	"staffadmin/internal/websocket"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var skipSeed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Migrate, seed and start the HTTP server",
	}
	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "Do not upsert the admin role and user on startup")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context(), skipSeed)
	}
	return cmd
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate the database and upsert the admin role and user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			return seed(cmd.Context(), cfg, db)
		},
	}
}

// bootstrap loads config, sets up logging and opens a migrated database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.NewConnection(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	svc := service.NewSeedService(
		repository.NewRoleRepository(db),
		repository.NewUserRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		service.NewBcryptPasswordHasher(cfg.BcryptCost),
	)
	result, err := svc.Seed(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	slog.Info("seed complete",
		"role_id", result.RoleID, "role_created", result.RoleCreated,
		"user_id", result.UserID, "user_created", result.UserCreated)
	return nil
}

func serve(parent context.Context, skipSeed bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	if !skipSeed {
		if err := seed(ctx, cfg, db); err != nil {
			return err
		}
	}

	prefs, err := preferenceStore(ctx, cfg)
	if err != nil {
		return err
	}

	hub := websocket.NewHub(cfg.CORSOrigins, logger.WithComponent("websocket"))
	go hub.Run(ctx)

	// Set up dependencies (Repository -> Service -> Handler)
	resolver := permission.Default
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	hasher := service.NewBcryptPasswordHasher(cfg.BcryptCost)

	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	var employeeRepo repository.EmployeeRepository
	if cfg.EmployeeStore == config.EmployeeStoreMemory {
		employeeRepo = repository.NewMemoryEmployeeRepository()
	} else {
		employeeRepo = repository.NewEmployeeRepository(db)
	}

	router := server.NewRouter(server.Deps{
		Logger:         logger.WithComponent("http"),
		Production:     cfg.IsProduction(),
		Sessions:       sessions,
		Resolver:       resolver,
		CORSOrigins:    cfg.CORSOrigins,
		LoginRateLimit: cfg.LoginRateLimit,
		Auth:           service.NewAuthService(userRepo, auditRepo, hasher, sessions, resolver),
		Roles:          service.NewRoleService(roleRepo, auditRepo, txManager, hub),
		Users:          service.NewUserService(userRepo, roleRepo, auditRepo, txManager, hasher, hub, cfg.AdminUsername),
		Employees:      service.NewEmployeeService(employeeRepo, resolver),
		Dashboard:      service.NewDashboardService(employeeRepo, resolver),
		Audit:          service.NewAuditService(auditRepo),
		Preferences:    prefs,
		Hub:            hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port, "env", cfg.AppEnv, "employee_store", cfg.EmployeeStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// preferenceStore uses Redis when REDIS_ADDR is set, process memory otherwise.
func preferenceStore(ctx context.Context, cfg *config.Config) (preference.Store, error) {
	if cfg.RedisAddr == "" {
		slog.Info("preferences kept in memory")
		return preference.NewMemoryStore(), nil
	}
	client, err := preference.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	slog.Info("preferences stored in redis", "addr", cfg.RedisAddr)
	return preference.NewRedisStore(client), nil
}
