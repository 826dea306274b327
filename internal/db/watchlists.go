package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"dealspy/internal/models"
)

// AddToWatchlist registers the user's interest in a product. endDate is
// optional; when set, clients show a countdown for the watch.
func (d *DB) AddToWatchlist(ctx context.Context, uid string, productID uuid.UUID, endDate *time.Time) error {
	query := `INSERT INTO watchlists (uid, product_id, watch_end_date) VALUES ($1, $2, $3)`
	if _, err := d.Pool.Exec(ctx, query, uid, productID, endDate); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyWatching
		}
		return err
	}
	return nil
}

// RemoveFromWatchlist deletes the watch identified by user and product name.
func (d *DB) RemoveFromWatchlist(ctx context.Context, uid, productName string) error {
	query := `
		DELETE FROM watchlists w
		USING products p
		WHERE w.product_id = p.id AND w.uid = $1 AND p.name = $2
	`
	tag, err := d.Pool.Exec(ctx, query, uid, productName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWatchNotFound
	}
	return nil
}

// ListWatchlist returns the user's watchlist with the tracked products.
func (d *DB) ListWatchlist(ctx context.Context, uid string) ([]models.WatchlistItem, error) {
	query := `
		SELECT p.id, p.name, p.current_price, p.last_lowest_price, p.price_state,
			p.deep_link, p.platform, p.image_url, p.description, p.created_at, p.updated_at,
			w.watch_end_date, w.created_at
		FROM watchlists w
		JOIN products p ON p.id = w.product_id
		WHERE w.uid = $1
		ORDER BY w.created_at DESC
	`
	rows, err := d.Pool.Query(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.WatchlistItem
	for rows.Next() {
		var item models.WatchlistItem
		p := &item.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.CurrentPrice,
			&p.LastLowestPrice,
			&p.PriceState,
			&p.DeepLink,
			&p.Platform,
			&p.ImageURL,
			&p.Description,
			&p.CreatedAt,
			&p.UpdatedAt,
			&item.WatchEndDate,
			&item.AddedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// FindWatchersByProductID returns every user watching the given product.
// Used by the notification fan-out after a price drop.
func (d *DB) FindWatchersByProductID(ctx context.Context, productID uuid.UUID) ([]models.User, error) {
	query := `
		SELECT u.uid, u.email, u.name, u.fcm_token, u.created_at
		FROM watchlists w
		JOIN users u ON u.uid = w.uid
		WHERE w.product_id = $1
	`
	rows, err := d.Pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UID, &u.Email, &u.Name, &u.FCMToken, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
