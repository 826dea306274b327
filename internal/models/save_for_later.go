package models

import "time"

// SavedItem is one entry in a user's save-for-later list.
type SavedItem struct {
	Product Product   `json:"product"`
	SavedAt time.Time `json:"saved_at"`
}
