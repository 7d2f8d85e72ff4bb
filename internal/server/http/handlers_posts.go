package http

import (
	"github.com/gofiber/fiber/v2"
)

func (s *HTTPServer) listPosts(c *fiber.Ctx) error {
	p, err := pageParams(c)
	if err != nil {
		return err
	}

	res, err := s.services.Posts.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	return paginated(c, res)
}

func (s *HTTPServer) createPost(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := s.services.Posts.Create(c.UserContext(), id.UserID, req.Title, req.Content)
	if err != nil {
		return err
	}
	return created(c, post)
}

// getPost counts a view; a signed-in reader other than the author also
// notifies the author.
func (s *HTTPServer) getPost(c *fiber.Ctx) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var viewerID string
	if id, ok := identity(c); ok {
		viewerID = id.UserID
	}

	post, err := s.services.Posts.Get(c.UserContext(), postID, viewerID)
	if err != nil {
		return err
	}
	return ok(c, post)
}

func (s *HTTPServer) updatePost(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := s.services.Posts.Update(c.UserContext(), postID, id.UserID, req.Title, req.Content)
	if err != nil {
		return err
	}
	return ok(c, post)
}

func (s *HTTPServer) deletePost(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := s.services.Posts.Delete(c.UserContext(), postID, id.UserID); err != nil {
		return err
	}
	return message(c, "Post deleted successfully")
}

func (s *HTTPServer) listComments(c *fiber.Ctx) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := pageParams(c)
	if err != nil {
		return err
	}

	res, err := s.services.Comments.ListByPost(c.UserContext(), postID, p)
	if err != nil {
		return err
	}
	return paginated(c, res)
}

func (s *HTTPServer) createComment(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := s.services.Comments.Create(c.UserContext(), id.UserID, postID, req.Content)
	if err != nil {
		return err
	}
	return created(c, comment)
}

func (s *HTTPServer) deleteComment(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	commentID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := s.services.Comments.Delete(c.UserContext(), commentID, id.UserID); err != nil {
		return err
	}
	return message(c, "Comment deleted successfully")
}

func (s *HTTPServer) toggleLike(c *fiber.Ctx) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	res, err := s.services.Likes.Toggle(c.UserContext(), id.UserID, postID)
	if err != nil {
		return err
	}
	return ok(c, res)
}
