package http

import (
	"github.com/gofiber/fiber/v2"
)

func (s *HTTPServer) listNotifications(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	p, err := pageParams(c)
	if err != nil {
		return err
	}

	unreadOnly := c.Query("unread") == "true"

	res, err := s.services.Notifications.List(c.UserContext(), id.UserID, p, unreadOnly)
	if err != nil {
		return err
	}
	return paginated(c, res)
}

func (s *HTTPServer) unreadCount(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}

	n, err := s.services.Notifications.UnreadCount(c.UserContext(), id.UserID)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"unreadCount": n})
}

func (s *HTTPServer) markNotificationRead(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	notificationID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	view, err := s.services.Notifications.MarkAsRead(c.UserContext(), notificationID, id.UserID)
	if err != nil {
		return err
	}
	return ok(c, view)
}

func (s *HTTPServer) markAllNotificationsRead(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}

	if err := s.services.Notifications.MarkAllAsRead(c.UserContext(), id.UserID); err != nil {
		return err
	}
	return message(c, "All notifications marked as read")
}
