package repositories

import (
	"errors"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// mongoError translates a driver error into an application error for entity.
func mongoError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.Errorf(errs.ENOTFOUND, "%s not found", entity)
	}
	if mongo.IsDuplicateKeyError(err) {
		return errs.Wrap(errs.EINVALID, err, "%s already exists", entity)
	}
	return errs.Wrap(errs.EUNAVAILABLE, err, "%s store", entity)
}

// gormError translates a GORM error into an application error for entity.
func gormError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Errorf(errs.ENOTFOUND, "%s not found", entity)
	}
	return errs.Wrap(errs.EUNAVAILABLE, err, "%s store", entity)
}
