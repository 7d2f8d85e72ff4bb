package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/pagination"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

const (
	testAccessSecret  = "access-secret-for-tests-0123456789abcdef"
	testRefreshSecret = "refresh-secret-for-tests-0123456789abcdef"

	postID = "3f1b8a5e-6a43-4c8e-9d2c-1a2b3c4d5e6f"
)

var alice = auth.Identity{UserID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Email: "alice@example.com", Username: "alice"}

type fakeAuth struct {
	registerFn  func(email, username, password string) (*services.AuthResult, error)
	loginFn     func(email, password string) (*services.AuthResult, error)
	refreshFn   func(token string) (*services.TokenPair, error)
	logoutToken string
	logoutErr   error
	logoutAllID string
}

func (f *fakeAuth) Register(_ context.Context, email, username, password string) (*services.AuthResult, error) {
	return f.registerFn(email, username, password)
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	return f.loginFn(email, password)
}

func (f *fakeAuth) Refresh(_ context.Context, token string) (*services.TokenPair, error) {
	return f.refreshFn(token)
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	f.logoutToken = token
	return f.logoutErr
}

func (f *fakeAuth) LogoutAll(_ context.Context, userID string) error {
	f.logoutAllID = userID
	return nil
}

type fakeUsers struct {
	profile  *models.Profile
	err      error
	updated  *models.User
	lastPage pagination.Params
}

func (f *fakeUsers) GetProfile(context.Context, string) (*models.Profile, error) {
	return f.profile, f.err
}

func (f *fakeUsers) UpdateProfile(_ context.Context, userID string, username, profileImage *string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u := &models.User{ID: userID, Email: "alice@example.com", Username: "alice", ProfileImage: profileImage}
	if username != nil {
		u.Username = *username
	}
	f.updated = u
	return u, nil
}

func (f *fakeUsers) ListPosts(_ context.Context, _ string, p pagination.Params) (pagination.Result[models.PostSummary], error) {
	f.lastPage = p
	return pagination.NewResult[models.PostSummary](nil, p.Normalize(), 0), f.err
}

type fakePosts struct {
	err        error
	viewerID   string
	lastPage   pagination.Params
	createdBy  string
	deletedBy  string
	updatedFor string
}

func (f *fakePosts) Create(_ context.Context, authorID, title, content string) (*models.Post, error) {
	f.createdBy = authorID
	return &models.Post{ID: postID, AuthorID: authorID, Title: title, Content: content}, f.err
}

func (f *fakePosts) List(_ context.Context, p pagination.Params) (pagination.Result[models.PostSummary], error) {
	f.lastPage = p
	items := []models.PostSummary{{ID: postID, Title: "hello"}}
	return pagination.NewResult(items, p.Normalize(), 11), f.err
}

func (f *fakePosts) Get(_ context.Context, id, viewerID string) (*models.PostDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.viewerID = viewerID
	return &models.PostDetail{ID: id, Title: "hello", Comments: []models.CommentWithAuthor{}, Likes: []models.LikeWithUser{}}, nil
}

func (f *fakePosts) Update(_ context.Context, id, userID string, title, _ *string) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updatedFor = userID
	p := &models.Post{ID: id, AuthorID: userID}
	if title != nil {
		p.Title = *title
	}
	return p, nil
}

func (f *fakePosts) Delete(_ context.Context, _, userID string) error {
	f.deletedBy = userID
	return f.err
}

type fakeComments struct {
	err error
}

func (f *fakeComments) Create(_ context.Context, authorID, _, content string) (*models.CommentWithAuthor, error) {
	return &models.CommentWithAuthor{ID: "c1", Content: content, Author: models.Author{ID: authorID}}, f.err
}

func (f *fakeComments) ListByPost(_ context.Context, _ string, p pagination.Params) (pagination.Result[models.CommentWithAuthor], error) {
	return pagination.NewResult[models.CommentWithAuthor](nil, p.Normalize(), 0), f.err
}

func (f *fakeComments) Delete(context.Context, string, string) error { return f.err }

type fakeLikes struct{}

func (fakeLikes) Toggle(context.Context, string, string) (*models.LikeToggle, error) {
	return &models.LikeToggle{Liked: true, LikeCount: 1}, nil
}

type fakeNotifications struct {
	unreadOnly bool
	err        error
}

func (f *fakeNotifications) List(_ context.Context, _ string, p pagination.Params, unreadOnly bool) (pagination.Result[models.NotificationView], error) {
	f.unreadOnly = unreadOnly
	return pagination.NewResult[models.NotificationView](nil, p.Normalize(), 0), f.err
}

func (f *fakeNotifications) UnreadCount(context.Context, string) (int, error) { return 4, f.err }

func (f *fakeNotifications) MarkAsRead(_ context.Context, id, _ string) (*models.NotificationView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.NotificationView{ID: id, IsRead: true}, nil
}

func (f *fakeNotifications) MarkAllAsRead(context.Context, string) error { return f.err }

// --- harness ---

type harness struct {
	srv      *HTTPServer
	issuer   *auth.TokenIssuer
	auth     *fakeAuth
	users    *fakeUsers
	posts    *fakePosts
	comments *fakeComments
	notes    *fakeNotifications
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithOptions(t, Options{})
}

func newHarnessWithOptions(t *testing.T, opts Options) *harness {
	t.Helper()
	issuer := auth.NewTokenIssuer(testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour, nil)
	h := &harness{
		issuer:   issuer,
		auth:     &fakeAuth{},
		users:    &fakeUsers{},
		posts:    &fakePosts{},
		comments: &fakeComments{},
		notes:    &fakeNotifications{},
	}
	svc := Services{
		Auth:          h.auth,
		Users:         h.users,
		Posts:         h.posts,
		Comments:      h.comments,
		Likes:         fakeLikes{},
		Notifications: h.notes,
	}
	h.srv = NewHTTPServer("127.0.0.1:0", logging.Nop{}, svc, auth.NewGuard(issuer), opts)
	return h
}

func (h *harness) bearer(t *testing.T, id auth.Identity) string {
	t.Helper()
	token, err := h.issuer.IssueAccess(id)
	require.NoError(t, err)
	return "Bearer " + token
}

type result struct {
	status  int
	header  http.Header
	body    map[string]any
	cookies []*http.Cookie
}

// do sends a request through fiber's in-memory test transport.
func (h *harness) do(t *testing.T, method, path, body string, headers map[string]string) result {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := h.srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := result{status: resp.StatusCode, header: resp.Header, cookies: resp.Cookies()}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.body), "body: %s", raw)
	}
	return out
}

func (r result) errorCode() string {
	e, _ := r.body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func (r result) errorMessage() string {
	e, _ := r.body["error"].(map[string]any)
	msg, _ := e["message"].(string)
	return msg
}

func (r result) data() map[string]any {
	d, _ := r.body["data"].(map[string]any)
	return d
}

func (r result) cookie(name string) *http.Cookie {
	for _, c := range r.cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
