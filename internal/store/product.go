package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/stocktrack/apiserver/types"
)

// ProductRepository handles persistence for products.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]types.Product, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 10
	}

	const countQuery = `SELECT COUNT(1) FROM products`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT id, name, type, sku, image_url, description, quantity, price, created_at, updated_at
		FROM products
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, listQuery, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]types.Product, 0, limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int) (types.Product, error) {
	const query = `
		SELECT id, name, type, sku, image_url, description, quantity, price, created_at, updated_at
		FROM products
		WHERE id = $1`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Product{}, ErrNotFound
		}
		return types.Product{}, err
	}
	return product, nil
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (types.Product, error) {
	const query = `
		SELECT id, name, type, sku, image_url, description, quantity, price, created_at, updated_at
		FROM products
		WHERE sku = $1`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, sku))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Product{}, ErrNotFound
		}
		return types.Product{}, err
	}
	return product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product types.Product) (types.Product, error) {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	const query = `
		INSERT INTO products (name, type, sku, image_url, description, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Type,
		product.SKU,
		nullableString(product.ImageURL),
		nullableString(product.Description),
		product.Quantity,
		product.Price,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID); err != nil {
		if isUniqueViolation(err) {
			return types.Product{}, ErrDuplicate
		}
		return types.Product{}, err
	}

	return product, nil
}

// UpdateQuantity persists the quantity and updated_at fields of product.
// Quantity is the only product field that mutates after creation.
func (r *ProductRepository) UpdateQuantity(ctx context.Context, product types.Product) (types.Product, error) {
	const query = `
		UPDATE products
		SET quantity = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, product.Quantity, product.UpdatedAt, product.ID)
	if err != nil {
		return types.Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Product{}, err
	}
	if affected == 0 {
		return types.Product{}, ErrNotFound
	}
	return product, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (types.Product, error) {
	var product types.Product
	var imageURL, description sql.NullString
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Type,
		&product.SKU,
		&imageURL,
		&description,
		&product.Quantity,
		&product.Price,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return types.Product{}, err
	}
	product.ImageURL = imageURL.String
	product.Description = description.String
	return product, nil
}

func nullableString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
