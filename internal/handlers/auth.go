package handlers

import (
	"github.com/gofiber/fiber/v3"

	"dealspy/internal/db"
	"dealspy/internal/middleware"
	"dealspy/internal/models"
)

// AuthHandler handles authenticated session bootstrap.
type AuthHandler struct {
	db *db.DB
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(database *db.DB) *AuthHandler {
	return &AuthHandler{db: database}
}

// Verify confirms the bearer token and upserts the caller's profile. Clients
// call this once after sign-in; an X-FCM-Token header registers the device
// for push notifications in the same round trip.
func (h *AuthHandler) Verify(c fiber.Ctx) error {
	uid := middleware.UID(c)
	claims := middleware.TokenClaims(c)

	user := &models.User{
		UID:   uid,
		Email: claims.Email,
		Name:  claims.Name,
	}
	if token := c.Get("X-FCM-Token"); token != "" {
		user.FCMToken = &token
	}

	if err := h.db.UpsertUser(c.Context(), user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save user")
	}

	return jsonSuccess(c, "token verified", fiber.Map{"uid": uid, "email": user.Email})
}
