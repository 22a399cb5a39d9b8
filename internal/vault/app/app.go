package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/vault/internal/vault/http"
	"github.com/aussiebroadwan/vault/internal/vault/service"
	"github.com/aussiebroadwan/vault/internal/vault/store"
	"github.com/aussiebroadwan/vault/internal/vault/store/drivers/sqlite"
	"github.com/aussiebroadwan/vault/pkg/cryptox"
	"github.com/aussiebroadwan/vault/pkg/jwtx"
	"github.com/aussiebroadwan/vault/pkg/mailx"
	"github.com/aussiebroadwan/vault/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds the vault service and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	keys     *jwtx.KeySet
	signer   *jwtx.EdDSASigner
	verifier jwtx.Verifier
	mailer   mailx.Sender

	activityService      *service.ActivityService
	accountService       *service.AccountService
	authenticatorService *service.AuthenticatorService
	recoveryService      *service.RecoveryService
	housekeepingService  *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "vault",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initKeys(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initMailer()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("vault starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests, stops housekeeping and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down vault...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("vault stopped")
	return nil
}

// Handler returns the HTTP handler, for embedding or tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
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

// initKeys loads the Ed25519 signing key, creating it on first start so
// tokens survive restarts.
func (app *Application) initKeys() error {
	priv, err := cryptox.LoadOrCreateEd25519Key(app.cfg.SigningKeyFile)
	if err != nil {
		return fmt.Errorf("failed to load signing key: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(priv)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}

	app.signer = signer
	app.keys = jwtx.NewKeySet()
	app.keys.AddSigner(signer)
	app.verifier = jwtx.NewVerifierEdDSA(app.keys, app.cfg.Issuer)

	app.logger.Info("signing key loaded", "kid", signer.KID(), "path", app.cfg.SigningKeyFile)
	return nil
}

func (app *Application) initMailer() {
	if app.cfg.SMTP.Host == "" {
		app.logger.Warn("SMTP_HOST not set, reset emails will be dropped")
		app.mailer = mailx.LogSender{Logger: app.logger}
		return
	}

	app.mailer = mailx.NewSMTPSender(mailx.SMTPConfig{
		Host:     app.cfg.SMTP.Host,
		Port:     app.cfg.SMTP.Port,
		User:     app.cfg.SMTP.User,
		Pass:     app.cfg.SMTP.Pass,
		From:     app.cfg.SMTP.From,
		TLSMode:  app.cfg.SMTP.TLSMode,
		Insecure: app.cfg.SMTP.Insecure,
	}, app.logger)
}

func (app *Application) initServices() {
	app.activityService = &service.ActivityService{Store: app.db}

	app.accountService = &service.AccountService{
		Store:    app.db,
		Activity: app.activityService,
		Signer:   app.signer,
		Issuer:   app.cfg.Issuer,
		TokenTTL: app.cfg.TokenTTL,
	}
	app.authenticatorService = &service.AuthenticatorService{
		Store:    app.db,
		Activity: app.activityService,
		Issuer:   app.cfg.Issuer,
		Window:   app.cfg.TOTPWindow,
		QRSize:   app.cfg.QRSize,
	}
	app.recoveryService = &service.RecoveryService{
		Store:    app.db,
		Activity: app.activityService,
		Mailer:   app.mailer,
		Issuer:   app.cfg.Issuer,
		Window:   app.cfg.TOTPWindow,
		ResetTTL: app.cfg.ResetOTPTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Limits = app.cfg.routerLimits()
	router.TrustProxy = app.cfg.TrustProxy
	router.AccountService = app.accountService
	router.ActivityService = app.activityService
	router.AuthenticatorService = app.authenticatorService
	router.RecoveryService = app.recoveryService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
