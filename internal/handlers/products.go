package handlers

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dealspy/internal/db"
	"dealspy/internal/notify"
	"dealspy/internal/pricing"
)

// ProductHandler handles catalog reads and price refresh triggers.
type ProductHandler struct {
	db       *db.DB
	updater  *pricing.Updater
	notifier *notify.Notifier

	updateRunning atomic.Bool
}

// NewProductHandler creates a new product handler.
func NewProductHandler(database *db.DB, updater *pricing.Updater, notifier *notify.Notifier) *ProductHandler {
	return &ProductHandler{db: database, updater: updater, notifier: notifier}
}

// List returns every tracked product.
func (h *ProductHandler) List(c fiber.Ctx) error {
	products, err := h.db.ListProducts(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch products")
	}
	return jsonSuccess(c, "products fetched", products)
}

// Get returns a single product by ID.
func (h *ProductHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.db.GetProductByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch product")
	}
	return jsonSuccess(c, "product fetched", product)
}

// UpdateAllPrices kicks off a full catalog price refresh in the background.
// Only one pass runs at a time; a second trigger while one is in flight gets
// a 409.
func (h *ProductHandler) UpdateAllPrices(c fiber.Ctx) error {
	if !h.updateRunning.CompareAndSwap(false, true) {
		return jsonError(c, fiber.StatusConflict, "a price update is already running")
	}

	go func() {
		defer h.updateRunning.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		updated, failed, err := h.updater.UpdateAll(ctx)
		if err != nil {
			log.Printf("manual price update aborted: %v", err)
			return
		}
		log.Printf("manual price update complete: %d updated, %d failed", updated, failed)
	}()

	return jsonSuccess(c, "price update started", nil)
}

// RefreshPrice performs a synchronous price update for one product.
func (h *ProductHandler) RefreshPrice(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.updater.UpdateProduct(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		if errors.Is(err, pricing.ErrPriceUnavailable) {
			return jsonError(c, fiber.StatusBadGateway, "could not discover a price for this product")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to refresh price")
	}
	return jsonSuccess(c, "price refreshed", product)
}

// TestNotification fires a price-drop push for a product without touching its
// price. Useful for verifying a device's FCM registration end to end.
func (h *ProductHandler) TestNotification(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.db.GetProductByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch product")
	}

	price := decimal.NewFromInt(1)
	if product.CurrentPrice != nil {
		price = *product.CurrentPrice
	}
	h.notifier.NotifyPriceDrop(product.ID, product.Name, price)

	return jsonSuccess(c, "test notification dispatched", nil)
}
