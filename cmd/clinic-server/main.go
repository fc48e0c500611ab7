package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smartclinic/api/internal/config"
	"github.com/smartclinic/api/internal/domain/accounts"
	"github.com/smartclinic/api/internal/domain/appointments"
	"github.com/smartclinic/api/internal/domain/notifications"
	"github.com/smartclinic/api/internal/domain/records"
	"github.com/smartclinic/api/internal/platform/auth"
	"github.com/smartclinic/api/internal/platform/db"
	"github.com/smartclinic/api/internal/platform/middleware"
	"github.com/smartclinic/api/internal/platform/websocket"
)

// AccountDirectoryAdapter exposes the accounts repository as the read-only
// directory the appointment and record workflows depend on, avoiding circular
// imports between those packages.
type AccountDirectoryAdapter struct {
	repo accounts.Repository
}

func NewAccountDirectoryAdapter(repo accounts.Repository) *AccountDirectoryAdapter {
	return &AccountDirectoryAdapter{repo: repo}
}

// Lookup implements appointments.AccountDirectory.
func (a *AccountDirectoryAdapter) Lookup(ctx context.Context, id uuid.UUID) (*appointments.AccountInfo, error) {
	acc, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &appointments.AccountInfo{ID: acc.ID, Name: acc.Name, Role: acc.Role}, nil
}

// RecordsDirectoryAdapter is the same directory shaped for the records domain.
type RecordsDirectoryAdapter struct {
	repo accounts.Repository
}

func NewRecordsDirectoryAdapter(repo accounts.Repository) *RecordsDirectoryAdapter {
	return &RecordsDirectoryAdapter{repo: repo}
}

// Lookup implements records.AccountDirectory.
func (a *RecordsDirectoryAdapter) Lookup(ctx context.Context, id uuid.UUID) (*records.AccountInfo, error) {
	acc, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &records.AccountInfo{ID: acc.ID, Role: acc.Role}, nil
}

// HubPusher adapts the websocket hub to the notifications.Pusher interface.
type HubPusher struct {
	hub *websocket.Hub
}

func NewHubPusher(hub *websocket.Hub) *HubPusher {
	return &HubPusher{hub: hub}
}

// Push implements notifications.Pusher.
func (p *HubPusher) Push(ctx context.Context, userID string, n *notifications.Notification) error {
	ev, err := websocket.NewEvent(websocket.EventReceiveNotification, n)
	if err != nil {
		return err
	}
	return p.hub.Publish(ctx, userID, ev)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic operations API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/healthz", db.HealthHandler(pool))

	// Websocket hub
	hub := websocket.NewHub()
	wsHandler := websocket.NewHandler(hub, logger)

	// Repositories
	accountRepo := accounts.NewRepoPG(pool)
	sequenceRepo := accounts.NewSequenceRepoPG(pool)
	apptRepo := appointments.NewRepoPG(pool)
	recordRepo := records.NewRepoPG(pool)
	profileRepo := records.NewProfileRepoPG(pool)
	notifRepo := notifications.NewRepoPG(pool)

	// Services
	directory := NewAccountDirectoryAdapter(accountRepo)
	recordsDirectory := NewRecordsDirectoryAdapter(accountRepo)

	accountSvc := accounts.NewService(accountRepo, sequenceRepo, cfg.MRNPrefix, logger)
	notifSvc := notifications.NewService(notifRepo, NewHubPusher(hub), logger)
	dispatcher := notifications.NewDispatcher(notifSvc, logger)
	apptSvc := appointments.NewService(apptRepo, directory, dispatcher, cfg.AllowPatientDelete, logger)
	recordSvc := records.NewService(recordRepo, profileRepo, recordsDirectory, logger)

	// Handlers
	accountHandler := accounts.NewHandler(accountSvc, []byte(cfg.JWTSecret))
	apptHandler := appointments.NewHandler(apptSvc)
	recordHandler := records.NewHandler(recordSvc)
	notifHandler := notifications.NewHandler(notifSvc)

	// Public routes
	public := e.Group("/api/v1")
	accountHandler.RegisterPublicRoutes(public)

	// Authenticated routes
	authMW := auth.JWTMiddleware([]byte(cfg.JWTSecret))
	if cfg.IsDev() {
		authMW = auth.DevAuthMiddleware()
	}

	api := e.Group("/api/v1")
	api.Use(authMW)
	accountHandler.RegisterRoutes(api)
	apptHandler.RegisterRoutes(api)
	recordHandler.RegisterRoutes(api)
	notifHandler.RegisterRoutes(api)

	// Websocket endpoint at the root, behind the same auth.
	ws := e.Group("")
	ws.Use(authMW)
	wsHandler.RegisterRoutes(ws)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
