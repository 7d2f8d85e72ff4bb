package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

const refreshCookie = "refreshToken"

type authResponse struct {
	User         publicUser `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken,omitempty"`
}

type publicUser struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	ProfileImage *string `json:"profileImage"`
}

func toPublicUser(u *models.User) publicUser {
	return publicUser{ID: u.ID, Email: u.Email, Username: u.Username, ProfileImage: u.ProfileImage}
}

func (s *HTTPServer) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := s.services.Auth.Register(c.UserContext(), req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}

	return created(c, authResponse{
		User:         toPublicUser(res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	})
}

func (s *HTTPServer) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := s.services.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	s.setRefreshCookie(c, res.Tokens.RefreshToken)
	return ok(c, authResponse{User: toPublicUser(res.User), AccessToken: res.Tokens.AccessToken})
}

// refresh accepts the token from the cookie first, then from the body.
func (s *HTTPServer) refresh(c *fiber.Ctx) error {
	token := s.presentedRefreshToken(c)
	if token == "" {
		return common.Unauthorized("Refresh token required")
	}

	pair, err := s.services.Auth.Refresh(c.UserContext(), token)
	if err != nil {
		return err
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	return ok(c, fiber.Map{"accessToken": pair.AccessToken})
}

func (s *HTTPServer) logout(c *fiber.Ctx) error {
	if err := s.services.Auth.Logout(c.UserContext(), s.presentedRefreshToken(c)); err != nil {
		return err
	}

	s.clearRefreshCookie(c)
	return message(c, "Logged out successfully")
}

func (s *HTTPServer) logoutAll(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}

	if err := s.services.Auth.LogoutAll(c.UserContext(), id.UserID); err != nil {
		return err
	}

	s.clearRefreshCookie(c)
	return message(c, "Logged out from all devices")
}

func (s *HTTPServer) presentedRefreshToken(c *fiber.Ctx) string {
	if token := c.Cookies(refreshCookie); token != "" {
		return token
	}
	var req refreshRequest
	if len(c.Body()) > 0 {
		_ = c.BodyParser(&req)
	}
	return req.RefreshToken
}

func (s *HTTPServer) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.opts.RefreshCookieMaxAge / time.Second),
		HTTPOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (s *HTTPServer) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
