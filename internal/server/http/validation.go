package http

import (
	"errors"
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/pagination"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var usernameRules = []validation.Rule{
	validation.Length(3, 30),
	validation.Match(usernamePattern).Error("must contain only letters, numbers and underscores"),
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Username, append([]validation.Rule{validation.Required}, usernameRules...)...),
		// bcrypt ignores everything past 72 bytes.
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	Username     *string `json:"username"`
	ProfileImage *string `json:"profileImage"`
}

func (r updateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, append([]validation.Rule{validation.NilOrNotEmpty}, usernameRules...)...),
		validation.Field(&r.ProfileImage, validation.NilOrNotEmpty, is.URL),
	)
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r createPostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&r.Content, validation.Required),
	)
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (r updatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.RuneLength(1, 200)),
		validation.Field(&r.Content, validation.NilOrNotEmpty),
	)
}

type createCommentRequest struct {
	Content string `json:"content"`
}

func (r createCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.RuneLength(1, 2000)),
	)
}

// bind decodes the JSON body into dst and runs its validation rules.
func bind(c *fiber.Ctx, dst validation.Validatable) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return common.BadRequest("Invalid request body")
		}
	}
	return validate(dst)
}

func validate(v validation.Validatable) error {
	if err := v.Validate(); err != nil {
		var ie validation.InternalError
		if errors.As(err, &ie) {
			return err
		}
		return common.Validation(err.Error())
	}
	return nil
}

// pathID returns the named path parameter, which must be a UUID.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if err := validation.Validate(id, validation.Required, is.UUID); err != nil {
		return "", common.Validation("Invalid " + name)
	}
	return id, nil
}

// pageParams reads ?page and ?limit. Absent values fall back to the defaults;
// present ones must be in range, and page must not push the offset past an int.
func pageParams(c *fiber.Ctx) (pagination.Params, error) {
	p := pagination.Params{Page: pagination.DefaultPage, Limit: pagination.DefaultLimit}

	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > pagination.MaxLimit {
			return p, common.Validation("Limit must be between 1 and 100")
		}
		p.Limit = n
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !pagination.InRange(n, p.Limit) {
			return p, common.Validation("Page must be at least 1")
		}
		p.Page = n
	}
	return p, nil
}
