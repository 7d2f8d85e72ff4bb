package http

import (
	"github.com/gofiber/fiber/v2"
)

func (s *HTTPServer) getMe(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}

	profile, err := s.services.Users.GetProfile(c.UserContext(), id.UserID)
	if err != nil {
		return err
	}
	return ok(c, profile)
}

func (s *HTTPServer) updateMe(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := s.services.Users.UpdateProfile(c.UserContext(), id.UserID, req.Username, req.ProfileImage)
	if err != nil {
		return err
	}
	return ok(c, toPublicUser(user))
}

func (s *HTTPServer) getMyPosts(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}

	p, err := pageParams(c)
	if err != nil {
		return err
	}

	res, err := s.services.Users.ListPosts(c.UserContext(), id.UserID, p)
	if err != nil {
		return err
	}
	return paginated(c, res)
}
