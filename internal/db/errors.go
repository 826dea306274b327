package db

import "errors"

// Domain-level database error sentinels.
var (
	// Product errors
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product already exists")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Watchlist errors
	ErrAlreadyWatching = errors.New("product is already on the watchlist")
	ErrWatchNotFound   = errors.New("product is not on the watchlist")

	// Save-for-later errors
	ErrAlreadySaved  = errors.New("product is already saved for later")
	ErrSavedNotFound = errors.New("product is not in save for later")
)
