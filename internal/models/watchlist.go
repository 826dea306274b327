package models

import "time"

// WatchlistItem is one entry on a user's watchlist, joined with the product
// it tracks. WatchEndDate is optional; when set the client shows a countdown.
type WatchlistItem struct {
	Product      Product    `json:"product"`
	WatchEndDate *time.Time `json:"watch_end_date,omitempty"`
	AddedAt      time.Time  `json:"added_at"`
}

// DaysLeft returns the whole days remaining until WatchEndDate at the given
// reference time, or nil when no end date is set. Expired watches report 0.
func (w *WatchlistItem) DaysLeft(now time.Time) *int {
	if w.WatchEndDate == nil {
		return nil
	}
	days := int(w.WatchEndDate.Sub(now).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}
