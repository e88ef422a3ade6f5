package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/repositories"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the profile an identity provider holds for a UID.
type Identity struct {
	Email     string
	FirstName string
	LastName  string
	PhotoURL  string
}

// IdentityDirectory looks up identities at the identity provider.
type IdentityDirectory interface {
	LookupIdentity(ctx context.Context, uid string) (*Identity, error)
}

// maxUsernameAttempts bounds the suffixes tried when a username is taken.
const maxUsernameAttempts = 50

// UserService manages local user records.
type UserService struct {
	users     repositories.UserRepository
	directory IdentityDirectory
}

// NewUserService creates a new UserService. With a nil directory, synced
// users get a username derived from their UID and no profile data.
func NewUserService(users repositories.UserRepository, directory IdentityDirectory) *UserService {
	return &UserService{users: users, directory: directory}
}

// Sync returns the local user for uid, creating it from the identity
// provider's profile on first use. created reports whether a user was made.
func (s *UserService) Sync(ctx context.Context, uid string) (user *models.User, created bool, err error) {
	existing, err := s.users.GetUserByExternalID(ctx, uid)
	if err == nil {
		return existing, false, nil
	}
	if !errs.Is(err, errs.ENOTFOUND) {
		return nil, false, err
	}

	identity := &Identity{}
	if s.directory != nil {
		if identity, err = s.directory.LookupIdentity(ctx, uid); err != nil {
			return nil, false, err
		}
	}

	base := usernameBase(identity.Email, uid)
	username, err := s.freeUsername(ctx, base)
	if err != nil {
		return nil, false, err
	}

	user = &models.User{
		ExternalID:     uid,
		Email:          identity.Email,
		Username:       username,
		FirstName:      identity.FirstName,
		LastName:       identity.LastName,
		ProfilePicture: identity.PhotoURL,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}
	log.Ctx(ctx).Info().Str("user", user.ID.Hex()).Str("username", username).Msg("user synced")
	return user, true, nil
}

// usernameBase takes the local part of the email, keeping letters and digits.
func usernameBase(email, uid string) string {
	source := uid
	if at := strings.IndexByte(email, '@'); at > 0 {
		source = email[:at]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(source) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) > 24 {
		base = base[:24]
	}
	for len(base) < 3 {
		base += "0"
	}
	return base
}

func (s *UserService) freeUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; i <= maxUsernameAttempts; i++ {
		_, err := s.users.GetUserByUsername(ctx, candidate)
		if errs.Is(err, errs.ENOTFOUND) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", errs.Errorf(errs.EINVALID, "Could not derive a free username from %q", base)
}

// Me returns the local user of an identity.
func (s *UserService) Me(ctx context.Context, uid string) (*models.User, error) {
	return s.users.GetUserByExternalID(ctx, uid)
}

// Profile returns a user by username.
func (s *UserService) Profile(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetUserByUsername(ctx, username)
}

// UpdateProfile applies the non-empty fields of req to the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req models.UpdateProfileRequest) (*models.User, error) {
	return s.users.UpdateProfile(ctx, userID, req)
}
