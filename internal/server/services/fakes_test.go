package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	commentsrepo "github.com/dmitrijs2005/blogkeeper/internal/server/repositories/comments"
	likesrepo "github.com/dmitrijs2005/blogkeeper/internal/server/repositories/likes"
	notificationsrepo "github.com/dmitrijs2005/blogkeeper/internal/server/repositories/notifications"
	postsrepo "github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
	refreshtokensrepo "github.com/dmitrijs2005/blogkeeper/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// --- users ---

type fakeUsersRepo struct {
	mu   sync.Mutex
	rows []*models.User

	createErr error
	findErr   error
	updateErr error
}

func (f *fakeUsersRepo) add(email, username, hash string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{ID: uuid.NewString(), Email: email, Username: username, PasswordHash: hash}
	f.rows = append(f.rows, u)
	return u
}

func (f *fakeUsersRepo) Create(_ context.Context, email, username, hash string) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, u := range f.snapshot() {
		if u.Email == email {
			return nil, usersrepo.ErrEmailTaken
		}
		if u.Username == username {
			return nil, usersrepo.ErrUsernameTaken
		}
	}
	return f.add(email, username, hash), nil
}

func (f *fakeUsersRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsersRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsersRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeUsersRepo) Update(_ context.Context, id string, username, profileImage *string) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.ID != id {
			continue
		}
		if username != nil {
			u.Username = *username
		}
		if profileImage != nil {
			u.ProfileImage = profileImage
		}
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.snapshot() {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) snapshot() []*models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.User(nil), f.rows...)
}

// --- refresh tokens ---

type fakeRefreshRepo struct {
	mu   sync.Mutex
	rows map[string]*models.RefreshToken

	createErr error
	findErr   error
	deleteErr error
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID, token string, expiresAt time.Time) (*models.RefreshToken, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[token]; ok {
		return nil, common.ErrorAlreadyExists
	}
	rt := &models.RefreshToken{ID: uuid.NewString(), UserID: userID, Token: token, ExpiresAt: expiresAt}
	f.rows[token] = rt
	return rt, nil
}

func (f *fakeRefreshRepo) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.rows[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[token]
	delete(f.rows, token)
	return ok, nil
}

func (f *fakeRefreshRepo) DeleteAllForUser(_ context.Context, userID string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, rt := range f.rows {
		if rt.UserID == userID {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeRefreshRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, rt := range f.rows {
		if rt.Expired(now) {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeRefreshRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// --- posts ---

type fakePostsRepo struct {
	mu   sync.Mutex
	rows []*models.Post

	findErr error
	listErr error
	viewErr error

	views int
}

func (f *fakePostsRepo) add(authorID, title, content string) *models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &models.Post{ID: uuid.NewString(), AuthorID: authorID, Title: title, Content: content}
	f.rows = append(f.rows, p)
	return p
}

func (f *fakePostsRepo) Create(_ context.Context, authorID, title, content string) (*models.Post, error) {
	return f.add(authorID, title, content), nil
}

func (f *fakePostsRepo) FindByID(_ context.Context, id string) (*models.Post, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakePostsRepo) FindDetail(ctx context.Context, id string) (*models.PostDetail, error) {
	p, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PostDetail{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		ViewCount: p.ViewCount,
		Author:    models.Author{ID: p.AuthorID},
	}, nil
}

func (f *fakePostsRepo) List(_ context.Context, limit, offset int) ([]models.PostSummary, error) {
	return f.list(func(*models.Post) bool { return true }, limit, offset)
}

func (f *fakePostsRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows), nil
}

func (f *fakePostsRepo) ListByAuthor(_ context.Context, authorID string, limit, offset int) ([]models.PostSummary, error) {
	return f.list(func(p *models.Post) bool { return p.AuthorID == authorID }, limit, offset)
}

func (f *fakePostsRepo) CountByAuthor(_ context.Context, authorID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.rows {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (f *fakePostsRepo) Update(_ context.Context, id string, title, content *string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID != id {
			continue
		}
		if title != nil {
			p.Title = *title
		}
		if content != nil {
			p.Content = *content
		}
		cp := *p
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakePostsRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.rows {
		if p.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakePostsRepo) IncrementViewCount(_ context.Context, id string) error {
	if f.viewErr != nil {
		return f.viewErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == id {
			p.ViewCount++
			f.views++
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakePostsRepo) IsOwner(_ context.Context, postID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == postID {
			return p.AuthorID == userID, nil
		}
	}
	return false, nil
}

func (f *fakePostsRepo) list(match func(*models.Post) bool, limit, offset int) ([]models.PostSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PostSummary
	for _, p := range f.rows {
		if !match(p) {
			continue
		}
		out = append(out, models.PostSummary{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			ViewCount: p.ViewCount,
			Author:    &models.Author{ID: p.AuthorID},
		})
	}
	return page(out, limit, offset), nil
}

// --- comments ---

type fakeCommentsRepo struct {
	mu   sync.Mutex
	rows []*models.Comment
	now  time.Time

	createErr error
}

func (f *fakeCommentsRepo) Create(_ context.Context, postID, authorID, content string) (*models.CommentWithAuthor, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(time.Second)
	c := &models.Comment{ID: uuid.NewString(), PostID: postID, AuthorID: authorID, Content: content, CreatedAt: f.now}
	f.rows = append(f.rows, c)
	return withAuthor(c), nil
}

func (f *fakeCommentsRepo) FindByID(_ context.Context, id string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCommentsRepo) ListByPost(_ context.Context, postID string, limit, offset int) ([]models.CommentWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CommentWithAuthor
	for _, c := range f.rows {
		if c.PostID == postID {
			out = append(out, *withAuthor(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit <= 0 {
		return out, nil
	}
	return page(out, limit, offset), nil
}

func (f *fakeCommentsRepo) CountByPost(_ context.Context, postID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.rows {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCommentsRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.rows {
		if c.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeCommentsRepo) IsOwner(_ context.Context, commentID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.ID == commentID {
			return c.AuthorID == userID, nil
		}
	}
	return false, nil
}

func withAuthor(c *models.Comment) *models.CommentWithAuthor {
	return &models.CommentWithAuthor{
		ID:        c.ID,
		Content:   c.Content,
		Author:    models.Author{ID: c.AuthorID},
		CreatedAt: c.CreatedAt,
	}
}

// --- likes ---

type fakeLikesRepo struct {
	mu   sync.Mutex
	rows []*models.Like

	createErr error
}

func (f *fakeLikesRepo) Find(_ context.Context, userID, postID string) (*models.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.rows {
		if l.UserID == userID && l.PostID == postID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeLikesRepo) Create(_ context.Context, userID, postID string) (*models.Like, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	l := &models.Like{ID: uuid.NewString(), UserID: userID, PostID: postID}
	f.rows = append(f.rows, l)
	return l, nil
}

func (f *fakeLikesRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.rows {
		if l.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeLikesRepo) CountByPost(_ context.Context, postID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.rows {
		if l.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLikesRepo) ListByPost(_ context.Context, postID string) ([]models.LikeWithUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.LikeWithUser
	for _, l := range f.rows {
		if l.PostID == postID {
			out = append(out, models.LikeWithUser{ID: l.ID, User: models.Author{ID: l.UserID}})
		}
	}
	return out, nil
}

// --- notifications ---

type fakeNotificationsRepo struct {
	mu   sync.Mutex
	rows []*models.Notification

	createErr error
	existsErr error
}

func (f *fakeNotificationsRepo) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	cp.ID = uuid.NewString()
	f.rows = append(f.rows, &cp)
	return &cp, nil
}

func (f *fakeNotificationsRepo) Exists(_ context.Context, typ models.NotificationType, actorID, recipientID, postID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.Type == typ && n.ActorID == actorID && n.RecipientID == recipientID && n.PostID != nil && *n.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationsRepo) FindByID(_ context.Context, id string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeNotificationsRepo) FindView(ctx context.Context, id string) (*models.NotificationView, error) {
	n, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewOf(n), nil
}

func (f *fakeNotificationsRepo) List(_ context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]models.NotificationView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.NotificationView
	for _, n := range f.rows {
		if n.RecipientID == recipientID && (!unreadOnly || !n.IsRead) {
			out = append(out, *viewOf(n))
		}
	}
	return page(out, limit, offset), nil
}

func (f *fakeNotificationsRepo) Count(_ context.Context, recipientID string, unreadOnly bool) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := 0
	for _, n := range f.rows {
		if n.RecipientID == recipientID && (!unreadOnly || !n.IsRead) {
			c++
		}
	}
	return c, nil
}

func (f *fakeNotificationsRepo) IsOwner(_ context.Context, id, recipientID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.ID == id {
			return n.RecipientID == recipientID, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationsRepo) MarkAsRead(_ context.Context, id, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeNotificationsRepo) MarkAllAsRead(_ context.Context, recipientID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c int64
	for _, n := range f.rows {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			c++
		}
	}
	return c, nil
}

func (f *fakeNotificationsRepo) ofType(typ models.NotificationType) []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for _, n := range f.rows {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

func viewOf(n *models.Notification) *models.NotificationView {
	v := &models.NotificationView{
		ID:     n.ID,
		Type:   n.Type,
		IsRead: n.IsRead,
		Actor:  models.Author{ID: n.ActorID},
	}
	if n.PostID != nil {
		v.Post = &models.PostRef{ID: *n.PostID}
	}
	return v
}

// --- manager ---

type fakeRepoManager struct {
	users         *fakeUsersRepo
	refresh       *fakeRefreshRepo
	posts         *fakePostsRepo
	comments      *fakeCommentsRepo
	likes         *fakeLikesRepo
	notifications *fakeNotificationsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:         &fakeUsersRepo{},
		refresh:       &fakeRefreshRepo{rows: map[string]*models.RefreshToken{}},
		posts:         &fakePostsRepo{},
		comments:      &fakeCommentsRepo{now: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		likes:         &fakeLikesRepo{},
		notifications: &fakeNotificationsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository {
	return m.refresh
}
func (m *fakeRepoManager) Posts(dbx.DBTX) postsrepo.Repository       { return m.posts }
func (m *fakeRepoManager) Comments(dbx.DBTX) commentsrepo.Repository { return m.comments }
func (m *fakeRepoManager) Likes(dbx.DBTX) likesrepo.Repository       { return m.likes }
func (m *fakeRepoManager) Notifications(dbx.DBTX) notificationsrepo.Repository {
	return m.notifications
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
