package handlers

import (
	"net/http"

	"github.com/anonto42/xsocial/backend/internal/errs"
	"github.com/anonto42/xsocial/backend/internal/middleware"
	"github.com/anonto42/xsocial/backend/internal/models"
	"github.com/anonto42/xsocial/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUser resolves the synced user of the authenticated identity.
func currentUser(c echo.Context, users *services.UserService) (*models.User, error) {
	uid := middleware.IdentityUID(c)
	if uid == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	user, err := users.Me(c.Request().Context(), uid)
	if err != nil {
		if errs.Is(err, errs.ENOTFOUND) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, httpError(c, err)
	}
	return user, nil
}

// objectIDParam parses the path parameter name as an ObjectID.
func objectIDParam(c echo.Context, name, label string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+label+" ID")
	}
	return id, nil
}
