// Package http exposes the blog services as a JSON REST API on top of fiber.
package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
)

const (
	shutdownTimeout = 10 * time.Second

	// Failed logins allowed per client within loginLimitWindow.
	loginLimitMax    = 5
	loginLimitWindow = 15 * time.Minute
)

// Authenticator turns an Authorization header into an identity. It is
// implemented by *auth.Guard.
type Authenticator interface {
	Authenticate(header string) (auth.Identity, error)
	Optional(header string) (auth.Identity, bool)
}

// Options tune transport details that do not belong to the services.
type Options struct {
	// SecureCookies marks the refresh token cookie Secure.
	SecureCookies bool
	// RefreshCookieMaxAge is the refresh token cookie lifetime.
	RefreshCookieMaxAge time.Duration
	// RateLimitMax requests per RateLimitWindow are allowed per client on /api.
	RateLimitMax    int
	RateLimitWindow time.Duration
	// CORSOrigin is the browser origin allowed to send credentials.
	CORSOrigin string
}

type HTTPServer struct {
	address  string
	app      *fiber.App
	services Services
	guard    Authenticator
	opts     Options
	logger   logging.Logger

	apiLimiter   fiber.Handler
	loginLimiter fiber.Handler
}

func NewHTTPServer(address string, l logging.Logger, svc Services, guard Authenticator, opts Options) *HTTPServer {
	if opts.RefreshCookieMaxAge <= 0 {
		opts.RefreshCookieMaxAge = 7 * 24 * time.Hour
	}
	if opts.RateLimitMax <= 0 {
		opts.RateLimitMax = 100
	}
	if opts.RateLimitWindow <= 0 {
		opts.RateLimitWindow = 15 * time.Minute
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "http://localhost:3000"
	}

	s := &HTTPServer{
		address:  address,
		services: svc,
		guard:    guard,
		opts:     opts,
		logger:   l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "blogkeeper",
		DisableStartupMessage: true,
		Immutable:             true,
		ErrorHandler:          s.errorHandler,
	})
	s.apiLimiter = limiter.New(limiter.Config{
		Max:        opts.RateLimitMax,
		Expiration: opts.RateLimitWindow,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/health"
		},
		LimitReached: func(*fiber.Ctx) error {
			return common.TooManyRequests("Too many requests, please try again later")
		},
	})
	s.loginLimiter = limiter.New(limiter.Config{
		Max:                    loginLimitMax,
		Expiration:             loginLimitWindow,
		SkipSuccessfulRequests: true,
		LimitReached: func(*fiber.Ctx) error {
			return common.TooManyRequests("Too many login attempts, please try again later")
		},
	})

	s.app.Use(s.requestLogger)
	s.app.Use(helmet.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigin,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))
	s.routes()

	return s
}

// App returns the underlying fiber application.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- s.app.Listen(s.address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	return <-errCh
}

func (s *HTTPServer) routes() {
	api := s.app.Group("/api", s.apiLimiter)

	api.Get("/health", s.health)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.register)
	// The login limiter reads the final status, so errors are rendered below it.
	authGroup.Post("/login", s.loginLimiter, s.renderErrors, s.login)
	authGroup.Post("/refresh", s.refresh)
	authGroup.Post("/logout", s.logout)
	authGroup.Post("/logout-all", s.authenticate, s.logoutAll)

	users := api.Group("/users", s.authenticate)
	users.Get("/me", s.getMe)
	users.Patch("/me", s.updateMe)
	users.Get("/me/posts", s.getMyPosts)

	posts := api.Group("/posts")
	posts.Get("/", s.listPosts)
	posts.Post("/", s.authenticate, s.createPost)
	posts.Get("/:id", s.optionalAuth, s.getPost)
	posts.Patch("/:id", s.authenticate, s.updatePost)
	posts.Delete("/:id", s.authenticate, s.deletePost)
	posts.Get("/:id/comments", s.listComments)
	posts.Post("/:id/comments", s.authenticate, s.createComment)
	posts.Post("/:id/like", s.authenticate, s.toggleLike)

	api.Delete("/comments/:id", s.authenticate, s.deleteComment)

	notifications := api.Group("/notifications", s.authenticate)
	notifications.Get("/", s.listNotifications)
	notifications.Get("/unread-count", s.unreadCount)
	notifications.Patch("/read-all", s.markAllNotificationsRead)
	notifications.Patch("/:id/read", s.markNotificationRead)
}

func (s *HTTPServer) health(c *fiber.Ctx) error {
	return ok(c, fiber.Map{"status": "ok", "timestamp": time.Now().UTC()})
}
