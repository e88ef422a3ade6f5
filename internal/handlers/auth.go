package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/xsocial/backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler exchanges identity provider tokens for session tokens
type AuthHandler struct {
	verifier   middleware.TokenVerifier
	jwtSecret  string
	sessionTTL time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(verifier middleware.TokenVerifier, jwtSecret string, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		verifier:   verifier,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/auth/session", h.CreateSession)
}

// SessionRequest defines the request body for a session exchange
type SessionRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// CreateSession verifies a Firebase ID token and issues a session JWT
func (h *AuthHandler) CreateSession(c echo.Context) error {
	if h.verifier == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Identity provider not configured")
	}

	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("firebase token rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	session, expiresAt, err := middleware.NewSessionToken(h.jwtSecret, token.UID, h.sessionTTL)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("sign session token")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": session, "expires_at": expiresAt})
}
