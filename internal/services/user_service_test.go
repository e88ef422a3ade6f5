package services

import (
	"context"
	"testing"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory map[string]*Identity

func (d stubDirectory) LookupIdentity(_ context.Context, uid string) (*Identity, error) {
	id, ok := d[uid]
	if !ok {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "unknown identity")
	}
	return id, nil
}

func TestSyncCreatesOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewUserService(store, stubDirectory{
		"uid-1": {Email: "jane.doe@example.com", FirstName: "Jane", LastName: "Doe", PhotoURL: "https://img/jane.png"},
	})

	user, created, err := svc.Sync(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "janedoe", user.Username)
	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "https://img/jane.png", user.ProfilePicture)

	again, created, err := svc.Sync(ctx, "uid-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
}

func TestSyncDeduplicatesUsername(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.CreateUser(ctx, &models.User{ExternalID: "other", Username: "jane"}))
	svc := NewUserService(store, stubDirectory{"uid-1": {Email: "jane@example.com"}})

	user, _, err := svc.Sync(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "jane1", user.Username)
}

func TestSyncDirectoryError(t *testing.T) {
	svc := NewUserService(memory.NewStore(), stubDirectory{})
	_, _, err := svc.Sync(context.Background(), "missing")
	assert.True(t, errs.Is(err, errs.EUNAUTHORIZED))
}

func TestUsernameBase(t *testing.T) {
	assert.Equal(t, "johnsmith", usernameBase("John.Smith@example.com", "uid"))
	assert.Equal(t, "abc123", usernameBase("", "aBc-123"))
	assert.Equal(t, "x00", usernameBase("x@example.com", "uid"))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewUserService(store, nil)
	user, _, err := svc.Sync(ctx, "uid-1")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, models.UpdateProfileRequest{Bio: "hi there"})
	require.NoError(t, err)
	assert.Equal(t, "hi there", updated.Bio)
	assert.Equal(t, user.Username, updated.Username)

	got, err := svc.Profile(ctx, user.Username)
	require.NoError(t, err)
	assert.Equal(t, "hi there", got.Bio)
}
