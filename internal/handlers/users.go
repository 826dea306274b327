package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"

	"dealspy/internal/db"
	"dealspy/internal/middleware"
)

// UserHandler handles profile and device registration endpoints.
type UserHandler struct {
	db *db.DB
}

// NewUserHandler creates a new user handler.
func NewUserHandler(database *db.DB) *UserHandler {
	return &UserHandler{db: database}
}

// GetProfile returns the caller's stored profile.
func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	user, err := h.db.GetUserByUID(c.Context(), middleware.UID(c))
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch profile")
	}
	return jsonSuccess(c, "profile fetched", user)
}

// UpdateFCMToken registers a new device push token for the caller.
func (h *UserHandler) UpdateFCMToken(c fiber.Ctx) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Token == "" {
		return jsonError(c, fiber.StatusBadRequest, "token is required")
	}

	if err := h.db.UpdateFCMToken(c.Context(), middleware.UID(c), body.Token); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update token")
	}
	return jsonSuccess(c, "token updated", nil)
}

// DeleteProfile removes the caller's account along with their watchlist and
// saved items.
func (h *UserHandler) DeleteProfile(c fiber.Ctx) error {
	if err := h.db.DeleteUser(c.Context(), middleware.UID(c)); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete profile")
	}
	return jsonSuccess(c, "profile deleted", nil)
}
