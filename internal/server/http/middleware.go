package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
)

const identityLocal = "identity"

// requestLogger writes one line per request after the handler chain, error
// handler included, has run.
func (s *HTTPServer) requestLogger(c *fiber.Ctx) error {
	start := time.Now()

	s.render(c, c.Next())

	s.logger.Info(c.UserContext(), "HTTP request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return nil
}

// renderErrors writes a handler error into the response right away, so
// middleware above it sees the final status code.
func (s *HTTPServer) renderErrors(c *fiber.Ctx) error {
	s.render(c, c.Next())
	return nil
}

func (s *HTTPServer) render(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	if herr := s.app.ErrorHandler(c, err); herr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}

// authenticate rejects the request unless it carries a valid access token.
func (s *HTTPServer) authenticate(c *fiber.Ctx) error {
	id, err := s.guard.Authenticate(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	setIdentity(c, id)
	return c.Next()
}

// optionalAuth attaches an identity when the token is valid and lets the
// request through either way.
func (s *HTTPServer) optionalAuth(c *fiber.Ctx) error {
	if id, ok := s.guard.Optional(c.Get(fiber.HeaderAuthorization)); ok {
		setIdentity(c, id)
	}
	return c.Next()
}

func setIdentity(c *fiber.Ctx, id auth.Identity) {
	c.Locals(identityLocal, id)
	c.SetUserContext(auth.WithIdentity(c.UserContext(), id))
}

func identity(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(identityLocal).(auth.Identity)
	return id, ok
}

// mustIdentity is for handlers mounted behind authenticate.
func mustIdentity(c *fiber.Ctx) (auth.Identity, error) {
	id, ok := identity(c)
	if !ok {
		return auth.Identity{}, common.Unauthorized("")
	}
	return id, nil
}
