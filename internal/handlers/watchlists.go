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

// WatchlistHandler handles the caller's tracked-products list.
type WatchlistHandler struct {
	db *db.DB
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(database *db.DB) *WatchlistHandler {
	return &WatchlistHandler{db: database}
}

type watchlistEntry struct {
	models.Product
	WatchEndDate *time.Time `json:"watchEndDate,omitempty"`
	DaysLeft     *int       `json:"daysLeft,omitempty"`
	AddedAt      time.Time  `json:"addedAt"`
}

// List returns the caller's watchlist with remaining watch days computed.
func (h *WatchlistHandler) List(c fiber.Ctx) error {
	items, err := h.db.ListWatchlist(c.Context(), middleware.UID(c))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch watchlist")
	}

	now := time.Now()
	entries := make([]watchlistEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, watchlistEntry{
			Product:      item.Product,
			WatchEndDate: item.WatchEndDate,
			DaysLeft:     item.DaysLeft(now),
			AddedAt:      item.AddedAt,
		})
	}
	return jsonSuccess(c, "watchlist fetched", entries)
}

// Add puts a product on the caller's watchlist, creating the catalog entry on
// first mention. A freshly created product has no price until the next update
// pass or an explicit refresh.
func (h *WatchlistHandler) Add(c fiber.Ctx) error {
	var body struct {
		ProductName  string `json:"productName"`
		WatchEndDate string `json:"watchEndDate"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	name := validation.NormalizeProductName(body.ProductName)
	if reason := validation.ValidateProductName(name); reason != "" {
		return jsonError(c, fiber.StatusBadRequest, reason)
	}
	endDate, reason := validation.ValidateWatchEndDate(body.WatchEndDate)
	if reason != "" {
		return jsonError(c, fiber.StatusBadRequest, reason)
	}

	product, err := h.db.GetOrCreateProductByName(c.Context(), name)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to look up product")
	}

	if err := h.db.AddToWatchlist(c.Context(), middleware.UID(c), product.ID, endDate); err != nil {
		if errors.Is(err, db.ErrAlreadyWatching) {
			return jsonError(c, fiber.StatusConflict, "product is already on your watchlist")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to add to watchlist")
	}
	return jsonSuccess(c, "added to watchlist", product)
}

// Remove takes a product off the caller's watchlist by name.
func (h *WatchlistHandler) Remove(c fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("productName"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product name")
	}
	name := validation.NormalizeProductName(raw)
	if name == "" {
		return jsonError(c, fiber.StatusBadRequest, "product name is required")
	}

	if err := h.db.RemoveFromWatchlist(c.Context(), middleware.UID(c), name); err != nil {
		if errors.Is(err, db.ErrWatchNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product is not on your watchlist")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to remove from watchlist")
	}
	return jsonSuccess(c, "removed from watchlist", nil)
}
