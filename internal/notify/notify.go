// Package notify delivers price-drop pushes to watching users. Dispatch is
// detached from the update pipeline: a slow or failing push never stalls the
// next price update.
package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"

	"dealspy/internal/metrics"
	"dealspy/internal/models"
)

// WatcherStore resolves the users watching a product.
type WatcherStore interface {
	FindWatchersByProductID(ctx context.Context, productID uuid.UUID) ([]models.User, error)
}

// PushSender delivers one push message to one device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string) error
}

// Notifier fans out price-drop notifications on a bounded worker pool that
// it owns; Close drains in-flight sends on shutdown.
type Notifier struct {
	store   WatcherStore
	sender  PushSender
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	timeout time.Duration
}

// New creates a Notifier with a dispatch pool of the given size.
func New(store WatcherStore, sender PushSender, workers int) *Notifier {
	if workers <= 0 {
		workers = 5
	}
	return &Notifier{
		store:   store,
		sender:  sender,
		sem:     semaphore.NewWeighted(int64(workers)),
		timeout: 60 * time.Second,
	}
}

// NotifyPriceDrop resolves the watchers of a product and dispatches one push
// per registered device. It returns immediately; resolution and delivery
// happen in the background. Failures are logged and dropped: price
// persistence already succeeded, notification is best-effort.
func (n *Notifier) NotifyPriceDrop(productID uuid.UUID, productName string, newPrice decimal.Decimal) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		// Detached from the caller's context on purpose: a batch shutdown
		// should not cancel pushes for drops that were already persisted.
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		watchers, err := n.store.FindWatchersByProductID(ctx, productID)
		if err != nil {
			log.Printf("notify: failed to resolve watchers for %q: %v", productName, err)
			return
		}
		if len(watchers) == 0 {
			log.Printf("notify: no watchers for %q, skipping", productName)
			return
		}

		title := "Price Dropped!"
		body := fmt.Sprintf("Price of %s has dropped to ₹%s", productName, newPrice)

		for _, watcher := range watchers {
			if !watcher.HasPushToken() {
				continue
			}
			token := *watcher.FCMToken

			if err := n.sem.Acquire(ctx, 1); err != nil {
				log.Printf("notify: dispatch window closed for %q: %v", productName, err)
				return
			}
			n.wg.Add(1)
			go func() {
				defer n.wg.Done()
				defer n.sem.Release(1)

				if err := n.sender.Send(ctx, token, title, body); err != nil {
					log.Printf("notify: push failed for %q: %v", productName, err)
					metrics.PushSends.WithLabelValues("failed").Inc()
					return
				}
				metrics.PushSends.WithLabelValues("sent").Inc()
			}()
		}
	}()
}

// Close waits for all in-flight notification work to finish.
func (n *Notifier) Close() {
	n.wg.Wait()
}
