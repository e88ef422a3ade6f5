package services

import (
	"context"
	"testing"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubHost struct {
	uploaded []*media.Image
}

func (h *stubHost) Upload(_ context.Context, img *media.Image) (string, error) {
	h.uploaded = append(h.uploaded, img)
	return "https://img.example.com/" + img.Filename, nil
}

func TestCreatePostNeedsTextOrImage(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "alice")

	_, err := f.posts.CreatePost(context.Background(), a.ID, "   ", nil)
	assert.True(t, errs.Is(err, errs.EINVALID))
}

func TestCreatePostWithImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")

	_, err := f.posts.CreatePost(ctx, a.ID, "", &media.Image{Filename: "cat.png"})
	assert.True(t, errs.Is(err, errs.EUNAVAILABLE), "no image host configured")

	host := &stubHost{}
	svc := NewPostService(f.store, f.store, f.store, f.store, host)
	view, err := svc.CreatePost(ctx, a.ID, "", &media.Image{Filename: "cat.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/cat.png", view.Image)
	assert.Equal(t, "alice", view.User.Username)
	assert.Len(t, host.uploaded, 1)
}

func TestListPostsByUsername(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	f.post(t, a, "a1")
	f.post(t, b, "b1")
	f.post(t, a, "a2")

	posts, err := f.posts.ListPostsByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "a2", posts[0].Content)
	assert.Equal(t, "a1", posts[1].Content)

	all, err := f.posts.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.posts.ListPostsByUsername(ctx, "nobody")
	assert.True(t, errs.Is(err, errs.ENOTFOUND))
}

func TestGetPostResolvesComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "hello")

	_, err := f.engagement.CreateComment(ctx, b.ID, p.ID, "first")
	require.NoError(t, err)
	_, err = f.engagement.CreateComment(ctx, a.ID, p.ID, "second")
	require.NoError(t, err)

	view, err := f.posts.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", view.User.Username)
	require.Len(t, view.Comments, 2)
	assert.Equal(t, "first", view.Comments[0].Content)
	assert.Equal(t, "bob", view.Comments[0].User.Username)

	comments, err := f.posts.ListComments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content, "newest first")
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	p := f.post(t, a, "hello")
	c, err := f.engagement.CreateComment(ctx, b.ID, p.ID, "hi")
	require.NoError(t, err)

	err = f.posts.DeletePost(ctx, b.ID, p.ID)
	assert.True(t, errs.Is(err, errs.EFORBIDDEN))

	require.NoError(t, f.posts.DeletePost(ctx, a.ID, p.ID))
	_, err = f.store.GetCommentByID(ctx, c.ID)
	assert.True(t, errs.Is(err, errs.ENOTFOUND))

	err = f.posts.DeletePost(ctx, a.ID, primitive.NewObjectID())
	assert.True(t, errs.Is(err, errs.ENOTFOUND))
}

func TestFeedShowsFollowedAndOwnPosts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	c := f.user(t, "carol")
	f.post(t, a, "a1")
	bp := f.post(t, b, "b1")
	f.post(t, c, "c1")
	f.post(t, b, "b2")

	_, err := f.graph.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = f.engagement.ToggleLike(ctx, a.ID, bp.ID)
	require.NoError(t, err)

	feed, err := f.posts.Feed(ctx, a.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, feed.TotalItems)
	assert.Equal(t, 2, feed.TotalPages)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, "b2", feed.Posts[0].Content)
	assert.False(t, feed.Posts[0].IsLiked)
	assert.Equal(t, "b1", feed.Posts[1].Content)
	assert.True(t, feed.Posts[1].IsLiked)

	feed, err = f.posts.Feed(ctx, a.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "a1", feed.Posts[0].Content)
}
