package firebase

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/services"
)

// UserGetter fetches user records from Firebase Auth. *auth.Client
// implements it.
type UserGetter interface {
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

// Directory looks up identities in Firebase Auth.
type Directory struct {
	users UserGetter
}

var _ services.IdentityDirectory = &Directory{}

// NewDirectory creates a new Directory
func NewDirectory(users UserGetter) *Directory {
	return &Directory{users: users}
}

// LookupIdentity returns the Firebase profile of uid. The display name is
// split at the first space into first and last name.
func (d *Directory) LookupIdentity(ctx context.Context, uid string) (*services.Identity, error) {
	record, err := d.users.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, errs.Wrap(errs.EUNAUTHORIZED, err, "Identity not found")
		}
		return nil, errs.Wrap(errs.EUNAVAILABLE, err, "identity provider")
	}

	first, last, _ := strings.Cut(strings.TrimSpace(record.DisplayName), " ")
	return &services.Identity{
		Email:     record.Email,
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		PhotoURL:  record.PhotoURL,
	}, nil
}
