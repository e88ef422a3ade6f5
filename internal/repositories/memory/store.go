// Package memory provides in-process implementations of the repository
// interfaces. It backs the test suites and database-less local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repositories.UserRepository         = (*Store)(nil)
	_ repositories.PostRepository         = (*Store)(nil)
	_ repositories.CommentRepository      = (*Store)(nil)
	_ repositories.NotificationRepository = (*Store)(nil)
	_ repositories.Transactor             = (*Store)(nil)
)

// Store keeps every entity in maps guarded by one mutex. Records are copied
// on the way in and out so callers never share slices with the store.
type Store struct {
	mu            sync.RWMutex
	users         map[primitive.ObjectID]*models.User
	posts         map[primitive.ObjectID]*models.Post
	comments      map[primitive.ObjectID]*models.Comment
	notifications map[uint]*models.Notification
	nextNotifID   uint
	now           func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users:         make(map[primitive.ObjectID]*models.User),
		posts:         make(map[primitive.ObjectID]*models.Post),
		comments:      make(map[primitive.ObjectID]*models.Comment),
		notifications: make(map[uint]*models.Notification),
		now:           time.Now,
	}
}

// WithTransaction runs fn directly; the store has no rollback.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// timestamp returns a strictly increasing time so that ordering by creation
// time is stable even within one clock tick.
func (s *Store) timestamp(last time.Time) time.Time {
	t := s.now()
	if !t.After(last) {
		t = last.Add(time.Microsecond)
	}
	return t
}

func notFound(entity string) error {
	return errs.Errorf(errs.ENOTFOUND, "%s not found", entity)
}

func copyIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	if models.ContainsID(ids, id) {
		return ids, false
	}
	return append(ids, id), true
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	out := ids[:0]
	removed := false
	for _, v := range ids {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}

// Users

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Following = copyIDs(u.Following)
	c.Followers = copyIDs(u.Followers)
	return &c
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ExternalID == user.ExternalID || u.Username == user.Username {
			return errs.Errorf(errs.EINVALID, "User already exists")
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound("User")
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.ExternalID == externalID })
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Username == username })
}

func (s *Store) findUser(match func(u *models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, notFound("User")
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, notFound("User")
	}
	if req.Username != "" && req.Username != u.Username {
		for _, other := range s.users {
			if other.Username == req.Username {
				return nil, errs.Errorf(errs.EINVALID, "User already exists")
			}
		}
		u.Username = req.Username
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&u.FirstName, req.FirstName)
	set(&u.LastName, req.LastName)
	set(&u.Bio, req.Bio)
	set(&u.Location, req.Location)
	set(&u.ProfilePicture, req.ProfilePicture)
	set(&u.BannerImage, req.BannerImage)
	u.UpdatedAt = s.now()
	return cloneUser(u), nil
}

func (s *Store) updateUserSet(id primitive.ObjectID, update func(u *models.User) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return false, notFound("User")
	}
	return update(u), nil
}

func (s *Store) AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return s.updateUserSet(userID, func(u *models.User) (changed bool) {
		u.Following, changed = addID(u.Following, targetID)
		return
	})
}

func (s *Store) RemoveFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return s.updateUserSet(userID, func(u *models.User) (changed bool) {
		u.Following, changed = removeID(u.Following, targetID)
		return
	})
}

func (s *Store) AddFollower(ctx context.Context, userID, followerID primitive.ObjectID) (bool, error) {
	return s.updateUserSet(userID, func(u *models.User) (changed bool) {
		u.Followers, changed = addID(u.Followers, followerID)
		return
	})
}

func (s *Store) RemoveFollower(ctx context.Context, userID, followerID primitive.ObjectID) (bool, error) {
	return s.updateUserSet(userID, func(u *models.User) (changed bool) {
		u.Followers, changed = removeID(u.Followers, followerID)
		return
	})
}

// Posts

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = copyIDs(p.Likes)
	c.Comments = copyIDs(p.Comments)
	return &c
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	var last time.Time
	for _, p := range s.posts {
		if p.CreatedAt.After(last) {
			last = p.CreatedAt
		}
	}
	post.CreatedAt = s.timestamp(last)
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	s.posts[post.ID] = clonePost(post)
	return nil
}

func (s *Store) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, notFound("Post")
	}
	return clonePost(p), nil
}

func (s *Store) GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Post
	for _, id := range ids {
		if p, ok := s.posts[id]; ok {
			out = append(out, *clonePost(p))
		}
	}
	return out, nil
}

func (s *Store) GetPostsByUserID(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	return s.listPosts(func(p *models.Post) bool { return p.UserID == userID }, skip, limit), nil
}

func (s *Store) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return s.listPosts(func(*models.Post) bool { return true }, skip, limit), nil
}

func (s *Store) GetPostsByUserIDs(ctx context.Context, userIDs []primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	return s.listPosts(func(p *models.Post) bool { return models.ContainsID(userIDs, p.UserID) }, skip, limit), nil
}

func (s *Store) CountPostsByUserIDs(ctx context.Context, userIDs []primitive.ObjectID) (int64, error) {
	return int64(len(s.listPosts(func(p *models.Post) bool { return models.ContainsID(userIDs, p.UserID) }, 0, 0))), nil
}

func (s *Store) listPosts(match func(p *models.Post) bool, skip, limit int64) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Post
	for _, p := range s.posts {
		if match(p) {
			out = append(out, *clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, skip, limit)
}

func page[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return nil
	}
	items = items[skip:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}

func (s *Store) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return notFound("Post")
	}
	delete(s.posts, id)
	return nil
}

func (s *Store) updatePost(id primitive.ObjectID, update func(p *models.Post) bool) (*models.Post, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, false, notFound("Post")
	}
	changed := update(p)
	return clonePost(p), changed, nil
}

func (s *Store) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, bool, error) {
	return s.updatePost(postID, func(p *models.Post) (changed bool) {
		p.Likes, changed = addID(p.Likes, userID)
		return
	})
}

func (s *Store) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, bool, error) {
	return s.updatePost(postID, func(p *models.Post) (changed bool) {
		p.Likes, changed = removeID(p.Likes, userID)
		return
	})
}

func (s *Store) AppendComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	_, _, err := s.updatePost(postID, func(p *models.Post) bool {
		p.Comments = append(p.Comments, commentID)
		return true
	})
	return err
}

func (s *Store) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	_, _, err := s.updatePost(postID, func(p *models.Post) (changed bool) {
		p.Comments, changed = removeID(p.Comments, commentID)
		return
	})
	return err
}

// Comments

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	var last time.Time
	for _, c := range s.comments {
		if c.CreatedAt.After(last) {
			last = c.CreatedAt
		}
	}
	comment.CreatedAt = s.timestamp(last)
	comment.UpdatedAt = comment.CreatedAt
	c := *comment
	s.comments[comment.ID] = &c
	return nil
}

func (s *Store) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, notFound("Comment")
	}
	out := *c
	return &out, nil
}

func (s *Store) GetCommentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Comment
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *Store) GetCommentsByPostID(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return notFound("Comment")
	}
	delete(s.comments, id)
	return nil
}

func (s *Store) DeleteCommentsByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
			n++
		}
	}
	return n, nil
}

// Notifications

func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextNotifID++
	notification.ID = s.nextNotifID
	notification.CreatedAt = s.now()
	n := *notification
	s.notifications[n.ID] = &n
	return nil
}

func (s *Store) GetByRecipientID(ctx context.Context, recipientID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) DeleteForRecipient(ctx context.Context, id uint, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return notFound("Notification")
	}
	delete(s.notifications, id)
	return nil
}
