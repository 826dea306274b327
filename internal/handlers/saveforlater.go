package handlers

import (
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v3"

	"dealspy/internal/db"
	"dealspy/internal/middleware"
	"dealspy/internal/models"
	"dealspy/internal/validation"
)

// SaveForLaterHandler handles the caller's saved-items list.
type SaveForLaterHandler struct {
	db *db.DB
}

// NewSaveForLaterHandler creates a new save-for-later handler.
func NewSaveForLaterHandler(database *db.DB) *SaveForLaterHandler {
	return &SaveForLaterHandler{db: database}
}

type savedEntry struct {
	models.Product
	SavedAt time.Time `json:"savedAt"`
}

// List returns the caller's saved items, most recent first.
func (h *SaveForLaterHandler) List(c fiber.Ctx) error {
	items, err := h.db.ListSaveForLater(c.Context(), middleware.UID(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch saved items")
	}

	entries := make([]savedEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, savedEntry{Product: item.Product, SavedAt: item.SavedAt})
	}
	return jsonSuccess(c, "saved items fetched", entries)
}

// Add saves a product for later, creating the catalog entry on first mention.
func (h *SaveForLaterHandler) Add(c fiber.Ctx) error {
	var body struct {
		ProductName string `json:"productName"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	name := validation.NormalizeProductName(body.ProductName)
	if reason := validation.ValidateProductName(name); reason != "" {
		return jsonError(c, fiber.StatusBadRequest, reason)
	}

	product, err := h.db.GetOrCreateProductByName(c.Context(), name)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to look up product")
	}

	if err := h.db.AddToSaveForLater(c.Context(), middleware.UID(c), product.ID); err != nil {
		if errors.Is(err, db.ErrAlreadySaved) {
			return jsonError(c, fiber.StatusConflict, "product is already saved")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to save product")
	}
	return jsonSuccess(c, "saved for later", product)
}

// Remove deletes a saved item by product name.
func (h *SaveForLaterHandler) Remove(c fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("productName"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product name")
	}
	name := validation.NormalizeProductName(raw)
	if name == "" {
		return jsonError(c, fiber.StatusBadRequest, "product name is required")
	}

	if err := h.db.RemoveFromSaveForLater(c.Context(), middleware.UID(c), name); err != nil {
		if errors.Is(err, db.ErrSavedNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product is not in your saved items")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to remove saved item")
	}
	return jsonSuccess(c, "removed from saved items", nil)
}
