// Package pricing drives the price update pipeline: it runs the prompt
// ladder per product, applies the drop-detection rule, persists the result
// and triggers notification fan-out.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dealspy/internal/metrics"
	"dealspy/internal/models"
	"dealspy/internal/search"
)

// ErrPriceUnavailable is returned when every ladder strategy failed and the
// stored record was deliberately left untouched.
var ErrPriceUnavailable = errors.New("no usable price found")

// ProductStore is the subset of the persistence layer the updater needs.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProductPrice(ctx context.Context, p *models.Product) error
}

// Searcher runs the prompt ladder for a product name.
type Searcher interface {
	Search(ctx context.Context, productName string) search.Result
}

// DropNotifier fans out price-drop pushes. Implementations must not block.
type DropNotifier interface {
	NotifyPriceDrop(productID uuid.UUID, productName string, newPrice decimal.Decimal)
}

// Updater orchestrates price updates for one product or the whole catalog.
type Updater struct {
	store    ProductStore
	searcher Searcher
	notifier DropNotifier
	delay    time.Duration
}

// New creates an Updater. delay is the pause between consecutive products in
// a batch, a guard against the external service's rate limit.
func New(store ProductStore, searcher Searcher, notifier DropNotifier, delay time.Duration) *Updater {
	return &Updater{store: store, searcher: searcher, notifier: notifier, delay: delay}
}

// UpdateOne refreshes a single product in place and persists the outcome.
// When the ladder fails the stored record is left exactly as it was: stale
// but correct data beats a corrupted row.
func (u *Updater) UpdateOne(ctx context.Context, product *models.Product) error {
	result := u.searcher.Search(ctx, product.Name)
	if !result.Success {
		log.Printf("pricing: no price found for %q, keeping previous data", product.Name)
		metrics.PriceUpdates.WithLabelValues("skipped").Inc()
		return ErrPriceUnavailable
	}

	oldPrice := product.CurrentPrice
	newPrice := *result.LowestPrice

	product.CurrentPrice = result.LowestPrice
	product.Platform = result.Platform
	if result.DeepLink != nil {
		// A missing link in this response must not erase a previously known
		// one.
		product.DeepLink = result.DeepLink
	}

	dropped := oldPrice != nil && newPrice.LessThan(*oldPrice)
	switch {
	case oldPrice == nil:
		// First observation: no baseline to compare against.
		product.LastLowestPrice = result.LowestPrice
		product.PriceState = models.PriceStable
	case dropped:
		if product.LastLowestPrice == nil || newPrice.LessThan(*product.LastLowestPrice) {
			product.LastLowestPrice = result.LowestPrice
		}
		product.PriceState = models.PriceDropped
	default:
		product.PriceState = models.PriceStable
	}

	if err := u.store.UpdateProductPrice(ctx, product); err != nil {
		metrics.PriceUpdates.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to persist price for %q: %w", product.Name, err)
	}
	metrics.PriceUpdates.WithLabelValues("updated").Inc()

	platform := "unknown platform"
	if result.Platform != nil {
		platform = *result.Platform
	}
	log.Printf("pricing: updated %q: ₹%s from %s", product.Name, newPrice, platform)

	if dropped && u.notifier != nil {
		u.notifier.NotifyPriceDrop(product.ID, product.Name, newPrice)
	}
	return nil
}

// UpdateProduct loads a product by id and refreshes it. Entry point for
// manual and administrative triggers.
func (u *Updater) UpdateProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := u.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.UpdateOne(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateAll refreshes the whole catalog serially. One product's failure
// never aborts the batch; the inter-product delay is interruptible so a
// shutdown signal stops the batch without losing completed work. Returns
// the number of successful and failed updates.
func (u *Updater) UpdateAll(ctx context.Context) (updated, failed int, err error) {
	products, err := u.store.ListProducts(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list products: %w", err)
	}

	log.Printf("pricing: starting catalog update for %d products", len(products))

	for i := range products {
		if ctx.Err() != nil {
			log.Printf("pricing: catalog update cancelled after %d products", updated+failed)
			return updated, failed, ctx.Err()
		}

		if err := u.UpdateOne(ctx, &products[i]); err != nil {
			failed++
		} else {
			updated++
		}

		if i < len(products)-1 {
			select {
			case <-ctx.Done():
				log.Printf("pricing: catalog update cancelled after %d products", updated+failed)
				return updated, failed, ctx.Err()
			case <-time.After(u.delay):
			}
		}
	}

	log.Printf("pricing: catalog update complete: %d updated, %d failed", updated, failed)
	return updated, failed, nil
}
