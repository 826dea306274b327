// Package jobs runs background maintenance loops.
package jobs

import (
	"context"
	"log"
	"time"

	"dealspy/internal/pricing"
)

// PriceUpdateJob periodically refreshes every tracked product's price.
type PriceUpdateJob struct {
	updater  *pricing.Updater
	interval time.Duration
}

// NewPriceUpdateJob creates a job that runs a full catalog update every
// interval.
func NewPriceUpdateJob(updater *pricing.Updater, interval time.Duration) *PriceUpdateJob {
	return &PriceUpdateJob{updater: updater, interval: interval}
}

// Start runs an immediate update pass, then repeats on the interval until the
// context is cancelled. Meant to be called in its own goroutine.
func (j *PriceUpdateJob) Start(ctx context.Context) {
	log.Printf("price update job started, interval %s", j.interval)

	j.runOnce(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("price update job stopping")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *PriceUpdateJob) runOnce(ctx context.Context) {
	updated, failed, err := j.updater.UpdateAll(ctx)
	if err != nil {
		log.Printf("price update pass aborted: %v", err)
		return
	}
	log.Printf("price update pass complete: %d updated, %d failed", updated, failed)
}
