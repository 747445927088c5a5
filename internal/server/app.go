// Package server initializes and runs the application server. It opens
// the database, applies migrations, selects the session and content
// backends from configuration, and serves the HTTP API until a shutdown
// signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/config"
	"github.com/dmitrijs2005/filekeeper/internal/server/content"
	"github.com/dmitrijs2005/filekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filekeeper/internal/server/services"
	"github.com/dmitrijs2005/filekeeper/internal/server/sessions"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions sessions.Store
	handler  *httpapi.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	contentStore, err := content.NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("content store init error: %w", err)
	}

	usersRepo := rm.Users(db)
	filesRepo := rm.Files(db)

	auth := services.NewAuthService(usersRepo, sessionStore, cfg.SessionTTL, logger)
	users := services.NewUserService(usersRepo)
	files := services.NewFileService(filesRepo, contentStore, logger)
	status := services.NewStatusService(db, sessionStore, usersRepo, filesRepo)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		sessions: sessionStore,
		handler:  httpapi.NewHandler(auth, users, files, status, logger),
	}, nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionsRedis:
		return sessions.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	case config.SessionsMemory:
		return sessions.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend: %q", cfg.SessionBackend)
	}
}

// Run serves until ctx is canceled or a termination signal arrives, then
// drains in-flight requests within shutdownTimeout.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.initSignalHandler(cancel)

	srv := &http.Server{
		Addr:              app.config.EndpointAddr,
		Handler:           app.handler.NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return app.closeStores()
}

// closeStores releases the shared store connections once no requests can
// reach them anymore. The memory session store has nothing to close; the
// Redis one does.
func (app *App) closeStores() error {
	if c, ok := app.sessions.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("session store close error: %w", err)
		}
	}
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("db close error: %w", err)
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}
