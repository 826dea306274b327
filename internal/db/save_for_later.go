package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"dealspy/internal/models"
)

// AddToSaveForLater stores a product in the user's save-for-later list.
func (d *DB) AddToSaveForLater(ctx context.Context, uid string, productID uuid.UUID) error {
	query := `INSERT INTO save_for_later (uid, product_id) VALUES ($1, $2)`
	if _, err := d.Pool.Exec(ctx, query, uid, productID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadySaved
		}
		return err
	}
	return nil
}

// RemoveFromSaveForLater deletes the entry identified by user and product name.
func (d *DB) RemoveFromSaveForLater(ctx context.Context, uid, productName string) error {
	query := `
		DELETE FROM save_for_later s
		USING products p
		WHERE s.product_id = p.id AND s.uid = $1 AND p.name = $2
	`
	tag, err := d.Pool.Exec(ctx, query, uid, productName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSavedNotFound
	}
	return nil
}

// ListSaveForLater returns the user's saved products.
func (d *DB) ListSaveForLater(ctx context.Context, uid string) ([]models.SavedItem, error) {
	query := `
		SELECT p.id, p.name, p.current_price, p.last_lowest_price, p.price_state,
			p.deep_link, p.platform, p.image_url, p.description, p.created_at, p.updated_at,
			s.created_at
		FROM save_for_later s
		JOIN products p ON p.id = s.product_id
		WHERE s.uid = $1
		ORDER BY s.created_at DESC
	`
	rows, err := d.Pool.Query(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.SavedItem
	for rows.Next() {
		var item models.SavedItem
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
			&item.SavedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
