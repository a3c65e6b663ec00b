package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/atriumhq/atrium/internal/account/http"
	"github.com/atriumhq/atrium/internal/account/service"
	"github.com/atriumhq/atrium/internal/account/store"
	"github.com/atriumhq/atrium/internal/account/store/drivers/sqlite"
	"github.com/atriumhq/atrium/pkg/cryptox"
	"github.com/atriumhq/atrium/pkg/eventx"
	"github.com/atriumhq/atrium/pkg/jwtx"
	"github.com/atriumhq/atrium/pkg/mailx"
	"github.com/atriumhq/atrium/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the account service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer *jwtx.EdDSASigner
	keys   *jwtx.KeySet
	mailer mailx.Mailer
	events eventx.Publisher

	// Services
	signupService       *service.SignupService
	loginService        *service.LoginService
	sessionService      *service.SessionService
	tenantService       *service.TenantService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "account-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for code hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, keys, err := initSigningKeys(app.cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.signer = signer
	app.keys = keys

	app.initMailer()
	app.initEvents()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("account service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down account service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.events.Close(); err != nil {
		app.logger.Error("error closing event publisher", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("account service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initMailer picks the code delivery transport. The log mailer is for dev
// and test environments only; codes end up in the service log.
func (app *Application) initMailer() {
	if app.cfg.MailMode == "smtp" && app.cfg.SMTPHost != "" {
		app.mailer = mailx.NewSMTPMailer(mailx.SMTPConfig{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			Username: app.cfg.SMTPUsername,
			Password: app.cfg.SMTPPassword,
			From:     app.cfg.SMTPFrom,
			Product:  app.cfg.ProductName,
		})
		app.logger.Info("smtp mailer enabled", "host", app.cfg.SMTPHost)
		return
	}

	app.mailer = mailx.NewLogMailer(app.logger)
	app.logger.Warn("log mailer enabled; verification codes are written to the log")
}

// initEvents wires the Kafka publisher when brokers are configured.
func (app *Application) initEvents() {
	if len(app.cfg.KafkaBrokers) == 0 {
		app.events = eventx.NopPublisher{}
		return
	}

	app.events = eventx.NewKafkaPublisher(app.cfg.KafkaBrokers, app.cfg.KafkaTopic)
	app.logger.Info("kafka event publisher enabled",
		"brokers", app.cfg.KafkaBrokers, "topic", app.cfg.KafkaTopic)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:      app.db,
		Signer:     app.signer,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
		Events:     app.events,
	}

	app.signupService = &service.SignupService{
		Store:  app.db,
		Mailer: app.mailer,
		Events: app.events,
	}
	app.loginService = &service.LoginService{
		Store:    app.db,
		Mailer:   app.mailer,
		Events:   app.events,
		Sessions: app.sessionService,
	}

	app.tenantService = &service.TenantService{Store: app.db}
	app.userService = &service.UserService{Store: app.db, Sessions: app.sessionService}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		jwtx.NewVerifierEdDSA(app.keys, app.cfg.Issuer),
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.SignupService = app.signupService
	router.LoginService = app.loginService
	router.SessionService = app.sessionService
	router.TenantService = app.tenantService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
