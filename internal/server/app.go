// Package server initializes and runs the blog backend. It opens the
// database and applies migrations, wires services to the HTTP API, runs
// the refresh token housekeeping loop and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"

	hs "github.com/dmitrijs2005/blogkeeper/internal/server/http"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
	httpServer  *hs.HTTPServer
}

func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	issuer := auth.NewTokenIssuer(c.AccessTokenSecret, c.RefreshTokenSecret, c.AccessTokenTTL, c.RefreshTokenTTL, time.Now)
	hasher := auth.NewPasswordHasher(c.BcryptCost)

	authService := services.NewAuthService(db, rm, hasher, issuer, time.Now, logger.With("service", "auth"))
	notifications := services.NewNotificationService(db, rm, logger.With("service", "notifications"))

	svc := hs.Services{
		Auth:          authService,
		Users:         services.NewUserService(db, rm, logger.With("service", "users")),
		Posts:         services.NewPostService(db, rm, notifications, logger.With("service", "posts")),
		Comments:      services.NewCommentService(db, rm, notifications, logger.With("service", "comments")),
		Likes:         services.NewLikeService(db, rm, notifications, logger.With("service", "likes")),
		Notifications: notifications,
	}

	httpServer := hs.NewHTTPServer(c.HTTPAddr, logger, svc, auth.NewGuard(issuer), hs.Options{
		SecureCookies:       c.IsProduction(),
		RefreshCookieMaxAge: c.RefreshTokenTTL,
		RateLimitMax:        c.RateLimitMax,
		RateLimitWindow:     c.RateLimitWindow,
		CORSOrigin:          c.CORSOrigin,
	})

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		authService: authService,
		httpServer:  httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or the HTTP server fails,
// then waits for the background workers and closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runHousekeeping(ctx, app.config.HousekeepingInterval, app.authService, app.logger)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
