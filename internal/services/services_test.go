package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	store         *memory.Store
	graph         *GraphService
	engagement    *EngagementService
	posts         *PostService
	users         *UserService
	notifications *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := NewNotifier(store)
	return &fixture{
		store:         store,
		graph:         NewGraphService(store, store, notifier),
		engagement:    NewEngagementService(store, store, store, store, notifier),
		posts:         NewPostService(store, store, store, store, nil),
		users:         NewUserService(store, nil),
		notifications: NewNotificationService(store, store, store, store),
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{ExternalID: "uid-" + username, Username: username}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) post(t *testing.T, owner *models.User, content string) *models.Post {
	t.Helper()
	view, err := f.posts.CreatePost(context.Background(), owner.ID, content, nil)
	require.NoError(t, err)
	return &view.Post
}

func (f *fixture) notificationsOf(t *testing.T, u *models.User) []models.Notification {
	t.Helper()
	list, err := f.store.GetByRecipientID(context.Background(), u.ID.Hex())
	require.NoError(t, err)
	return list
}

func (f *fixture) reload(t *testing.T, u *models.User) *models.User {
	t.Helper()
	got, err := f.store.GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	return got
}

func TestToggleFollowKeepsEdgesSymmetric(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")

	for i := 1; i <= 4; i++ {
		res, err := f.graph.ToggleFollow(ctx, a.ID, b.ID)
		require.NoError(t, err)

		odd := i%2 == 1
		assert.Equal(t, odd, res.Following)
		assert.Equal(t, odd, f.reload(t, a).IsFollowing(b.ID), "toggle %d", i)
		assert.Equal(t, odd, models.ContainsID(f.reload(t, b).Followers, a.ID), "toggle %d", i)
	}

	// follows on toggles 1 and 3, none on unfollows
	notifs := f.notificationsOf(t, b)
	require.Len(t, notifs, 2)
	assert.Equal(t, models.NotificationFollow, notifs[0].Type)
	assert.Equal(t, a.ID.Hex(), notifs[0].ActorID)
	assert.Nil(t, notifs[0].PostID)
}

func TestToggleFollowSelf(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")

	_, err := f.graph.ToggleFollow(ctx, a.ID, a.ID)
	assert.True(t, errs.Is(err, errs.EINVALID))

	_, err = f.graph.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = f.graph.ToggleFollow(ctx, a.ID, a.ID)
	assert.True(t, errs.Is(err, errs.EINVALID))
	assert.Empty(t, f.notificationsOf(t, a))
}

func TestToggleFollowMissingUser(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")

	_, err := f.graph.ToggleFollow(context.Background(), a.ID, primitive.NewObjectID())
	assert.True(t, errs.Is(err, errs.ENOTFOUND))
	assert.Empty(t, f.reload(t, a).Following)
}

func TestToggleFollowHealsOneSidedEdge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")

	// a crash after the first write of a follow
	_, err := f.store.AddFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)

	res, err := f.graph.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, res.Following)
	assert.False(t, f.reload(t, a).IsFollowing(b.ID))
	assert.False(t, models.ContainsID(f.reload(t, b).Followers, a.ID))
}

func TestToggleLikeParity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "hello")

	for i := 1; i <= 5; i++ {
		res, err := f.engagement.ToggleLike(ctx, b.ID, p.ID)
		require.NoError(t, err)

		got, err := f.store.GetPostByID(ctx, p.ID)
		require.NoError(t, err)
		odd := i%2 == 1
		assert.Equal(t, odd, res.Liked)
		assert.Equal(t, odd, got.IsLikedBy(b.ID))
		assert.Equal(t, len(got.Likes), res.LikeCount)
		assert.LessOrEqual(t, len(got.Likes), 1)
	}

	// one per like transition: toggles 1, 3 and 5
	assert.Len(t, f.notificationsOf(t, a), 3)
}

func TestToggleLikeOwnPostNeverNotifies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	p := f.post(t, a, "hello")

	res, err := f.engagement.ToggleLike(ctx, a.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{Liked: true, LikeCount: 1}, res)
	assert.Empty(t, f.notificationsOf(t, a))
}

func TestToggleLikeMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	p := f.post(t, a, "hello")

	_, err := f.engagement.ToggleLike(ctx, a.ID, primitive.NewObjectID())
	assert.True(t, errs.Is(err, errs.ENOTFOUND))

	_, err = f.engagement.ToggleLike(ctx, primitive.NewObjectID(), p.ID)
	assert.True(t, errs.Is(err, errs.ENOTFOUND))
}

func TestConcurrentLikesAddOneEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "hello")

	// Every caller reads the same "not liked" snapshot; the set add decides.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.store.AddLike(ctx, p.ID, b.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.store.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{b.ID}, got.Likes)
}

func TestLikeScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.user(t, "alice")
	u2 := f.user(t, "bob")
	p1 := f.post(t, u1, "first post")

	res, err := f.engagement.ToggleLike(ctx, u2.ID, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{Liked: true, LikeCount: 1}, res)

	notifs := f.notificationsOf(t, u1)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationLike, notifs[0].Type)
	assert.Equal(t, u2.ID.Hex(), notifs[0].ActorID)
	assert.Equal(t, u1.ID.Hex(), notifs[0].RecipientID)
	require.NotNil(t, notifs[0].PostID)
	assert.Equal(t, p1.ID.Hex(), *notifs[0].PostID)

	res, err = f.engagement.ToggleLike(ctx, u2.ID, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{Liked: false, LikeCount: 0}, res)
	assert.Len(t, f.notificationsOf(t, u1), 1)
}

func TestCreateCommentRejectsBlank(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	p := f.post(t, a, "hello")

	_, err := f.engagement.CreateComment(ctx, a.ID, p.ID, "  ")
	assert.True(t, errs.Is(err, errs.EINVALID))

	comments, err := f.store.GetCommentsByPostID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCreateAndDeleteComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "hello")

	c, err := f.engagement.CreateComment(ctx, b.ID, p.ID, "  hi ")
	require.NoError(t, err)
	assert.Equal(t, "hi", c.Content)

	got, err := f.store.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{c.ID}, got.Comments)

	notifs := f.notificationsOf(t, a)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationComment, notifs[0].Type)
	require.NotNil(t, notifs[0].CommentID)
	assert.Equal(t, c.ID.Hex(), *notifs[0].CommentID)

	require.NoError(t, f.engagement.DeleteComment(ctx, b.ID, c.ID))

	got, err = f.store.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)
	_, err = f.store.GetCommentByID(ctx, c.ID)
	assert.True(t, errs.Is(err, errs.ENOTFOUND))

	err = f.engagement.DeleteComment(ctx, b.ID, c.ID)
	assert.True(t, errs.Is(err, errs.ENOTFOUND))
}

func TestCommentOnOwnPostDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	p := f.post(t, a, "hello")

	_, err := f.engagement.CreateComment(ctx, a.ID, p.ID, "me again")
	require.NoError(t, err)
	assert.Empty(t, f.notificationsOf(t, a))
}

func TestDeleteCommentByOtherUserIsForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "hello")

	c, err := f.engagement.CreateComment(ctx, b.ID, p.ID, "hi")
	require.NoError(t, err)

	// the post owner is not the author either
	err = f.engagement.DeleteComment(ctx, a.ID, c.ID)
	assert.True(t, errs.Is(err, errs.EFORBIDDEN))

	got, err := f.store.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{c.ID}, got.Comments)
	_, err = f.store.GetCommentByID(ctx, c.ID)
	assert.NoError(t, err)
}

func TestDeleteCommentOfDeletedPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	p := f.post(t, a, "hello")

	c, err := f.engagement.CreateComment(ctx, a.ID, p.ID, "hi")
	require.NoError(t, err)
	require.NoError(t, f.store.DeletePost(ctx, p.ID))

	require.NoError(t, f.engagement.DeleteComment(ctx, a.ID, c.ID))
}

// failingNotifications fails every write.
type failingNotifications struct {
	*memory.Store
}

func (failingNotifications) CreateNotification(context.Context, *models.Notification) error {
	return errs.Wrap(errs.EUNAVAILABLE, errors.New("connection refused"), "Notification store")
}

func TestNotificationFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	notifier := NewNotifier(failingNotifications{store})
	graph := NewGraphService(store, store, notifier)
	engagement := NewEngagementService(store, store, store, store, notifier)

	a := &models.User{ExternalID: "uid-a", Username: "alice"}
	b := &models.User{ExternalID: "uid-b", Username: "bob"}
	require.NoError(t, store.CreateUser(ctx, a))
	require.NoError(t, store.CreateUser(ctx, b))
	p := &models.Post{UserID: a.ID, Content: "hello"}
	require.NoError(t, store.CreatePost(ctx, p))

	follow, err := graph.ToggleFollow(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, follow.Following)

	like, err := engagement.ToggleLike(ctx, b.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{Liked: true, LikeCount: 1}, like)

	c, err := engagement.CreateComment(ctx, b.ID, p.ID, "hi")
	require.NoError(t, err)
	got, err := store.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{c.ID}, got.Comments)
}

func TestNotificationListResolvesReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "hello")

	_, err := f.graph.ToggleFollow(ctx, b.ID, a.ID)
	require.NoError(t, err)
	c, err := f.engagement.CreateComment(ctx, b.ID, p.ID, "nice")
	require.NoError(t, err)

	views, err := f.notifications.List(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, models.NotificationComment, views[0].Type)
	require.NotNil(t, views[0].From)
	assert.Equal(t, "bob", views[0].From.Username)
	require.NotNil(t, views[0].Post)
	assert.Equal(t, "hello", views[0].Post.Content)
	require.NotNil(t, views[0].Comment)
	assert.Equal(t, c.ID.Hex(), views[0].Comment.ID)

	assert.Equal(t, models.NotificationFollow, views[1].Type)
	assert.Nil(t, views[1].Post)

	// deleting the comment leaves the notification with a nil reference
	require.NoError(t, f.engagement.DeleteComment(ctx, b.ID, c.ID))
	views, err = f.notifications.List(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, views[0].Comment)
}

func TestNotificationDeleteOnlyByRecipient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")

	_, err := f.graph.ToggleFollow(ctx, b.ID, a.ID)
	require.NoError(t, err)
	notifs := f.notificationsOf(t, a)
	require.Len(t, notifs, 1)

	err = f.notifications.Delete(ctx, b.ID, notifs[0].ID)
	assert.True(t, errs.Is(err, errs.ENOTFOUND))

	require.NoError(t, f.notifications.Delete(ctx, a.ID, notifs[0].ID))
	assert.Empty(t, f.notificationsOf(t, a))
}
