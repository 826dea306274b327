package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price state values. A product starts in "unknown" until the first
// successful price observation; after that it is "stable" or "dropped"
// depending on the most recent update.
const (
	PriceUnknown = "unknown"
	PriceStable  = "stable"
	PriceDropped = "dropped"
)

// Product is a tracked catalog item. Price fields are nil until the first
// successful price discovery; DeepLink and Platform describe the cheapest
// known listing.
type Product struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	CurrentPrice    *decimal.Decimal `json:"current_price"`
	LastLowestPrice *decimal.Decimal `json:"last_lowest_price"`
	PriceState      string           `json:"price_state"`
	DeepLink        *string          `json:"deep_link"`
	Platform        *string          `json:"platform"`
	ImageURL        *string          `json:"image_url"`
	Description     *string          `json:"description"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// IsPriceDropped reports whether the most recent update observed a drop.
func (p *Product) IsPriceDropped() bool {
	return p.PriceState == PriceDropped
}

// PriceStateCount is an aggregate row for the metrics collector.
type PriceStateCount struct {
	State string
	Count int64
}
