package postgres

import (
	"context"
	"errors"
	"fmt"

	"productsync/internal/domain/product"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS products (
			id         BIGSERIAL PRIMARY KEY,
			title      TEXT NOT NULL,
			image      TEXT NOT NULL,
			likes      BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure products schema: %w", err)
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	const sql = `
		SELECT id, title, image, likes, created_at, updated_at
		FROM products
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Image, &p.Likes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	const sql = `
		SELECT id, title, image, likes, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var p product.Product
	err := r.pool.QueryRow(ctx, sql, id).Scan(&p.ID, &p.Title, &p.Image, &p.Likes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	const sql = `
		INSERT INTO products (title, image, likes)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, sql, p.Title, p.Image, p.Likes).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *ProductRepository) Update(ctx context.Context, id int64, title, image string) (*product.Product, error) {
	const sql = `
		UPDATE products
		SET title = $2, image = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, image, likes, created_at, updated_at
	`

	var p product.Product
	err := r.pool.QueryRow(ctx, sql, id, title, image).Scan(&p.ID, &p.Title, &p.Image, &p.Likes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return &p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const sql = `DELETE FROM products WHERE id = $1`

	tag, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *ProductRepository) IncrementLikes(ctx context.Context, id int64) (*product.Product, error) {
	const sql = `
		UPDATE products
		SET likes = likes + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, image, likes, created_at, updated_at
	`

	var p product.Product
	err := r.pool.QueryRow(ctx, sql, id).Scan(&p.ID, &p.Title, &p.Image, &p.Likes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("increment product likes: %w", err)
	}

	return &p, nil
}
