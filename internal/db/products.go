package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"dealspy/internal/models"
)

// productColumns is the standard column list for product queries.
const productColumns = `id, name, current_price, last_lowest_price, price_state,
	deep_link, platform, image_url, description, created_at, updated_at`

// scanProduct scans a row into a Product struct.
func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
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
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanProducts scans multiple rows into a slice of Products.
func scanProducts(rows pgx.Rows) ([]models.Product, error) {
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
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
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// GetProductByID returns a product by its id.
func (d *DB) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(d.Pool.QueryRow(ctx, query, id))
}

// GetProductByName returns a product by its canonical name.
func (d *DB) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = $1`
	return scanProduct(d.Pool.QueryRow(ctx, query, name))
}

// ListProducts returns the full catalog ordered by name.
func (d *DB) ListProducts(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// GetOrCreateProductByName returns the product with the given name, creating
// an unpriced row if it does not exist yet. Products enter the catalog lazily
// the first time a user references them.
func (d *DB) GetOrCreateProductByName(ctx context.Context, name string) (*models.Product, error) {
	query := `
		INSERT INTO products (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + productColumns
	return scanProduct(d.Pool.QueryRow(ctx, query, name))
}

// UpdateProductPrice persists the outcome of one price discovery in a single
// atomic write. Only price-related columns are touched.
func (d *DB) UpdateProductPrice(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET current_price = $2, last_lowest_price = $3, price_state = $4,
			deep_link = $5, platform = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		p.ID,
		p.CurrentPrice,
		p.LastLowestPrice,
		p.PriceState,
		p.DeepLink,
		p.Platform,
	).Scan(&p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProductNotFound
	}
	return err
}

// CreateProduct creates a product with full details (admin seeding).
func (d *DB) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, image_url, description)
		VALUES ($1, $2, $3)
		RETURNING id, price_state, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, p.Name, p.ImageURL, p.Description).
		Scan(&p.ID, &p.PriceState, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateProduct
		}
		return err
	}
	return nil
}

// CountProductsByState returns the number of products in each price state.
func (d *DB) CountProductsByState(ctx context.Context) ([]models.PriceStateCount, error) {
	rows, err := d.Pool.Query(ctx, `SELECT price_state, COUNT(*) FROM products GROUP BY price_state`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.PriceStateCount
	for rows.Next() {
		var c models.PriceStateCount
		if err := rows.Scan(&c.State, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
