package postgres

import (
	"context"
	"errors"
	"fmt"

	"productsync/internal/domain/replica"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReplicaRepository struct {
	pool *pgxpool.Pool
}

func NewReplicaRepository(pool *pgxpool.Pool) *ReplicaRepository {
	return &ReplicaRepository{pool: pool}
}

func (r *ReplicaRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS replica_products (
			id         UUID PRIMARY KEY,
			admin_id   BIGINT NOT NULL UNIQUE,
			title      TEXT NOT NULL,
			image      TEXT NOT NULL,
			likes      BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure replica_products schema: %w", err)
	}
	return nil
}

func (r *ReplicaRepository) List(ctx context.Context) ([]replica.Replica, error) {
	const sql = `
		SELECT id, admin_id, title, image, likes, created_at, updated_at
		FROM replica_products
		ORDER BY admin_id ASC
	`

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query replicas: %w", err)
	}
	defer rows.Close()

	var replicas []replica.Replica
	for rows.Next() {
		var rep replica.Replica
		if err := rows.Scan(&rep.ID, &rep.AdminID, &rep.Title, &rep.Image, &rep.Likes, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan replica: %w", err)
		}
		replicas = append(replicas, rep)
	}

	return replicas, rows.Err()
}

func (r *ReplicaRepository) GetByID(ctx context.Context, id string) (*replica.Replica, error) {
	const sql = `
		SELECT id, admin_id, title, image, likes, created_at, updated_at
		FROM replica_products
		WHERE id = $1
	`

	var rep replica.Replica
	err := r.pool.QueryRow(ctx, sql, id).Scan(&rep.ID, &rep.AdminID, &rep.Title, &rep.Image, &rep.Likes, &rep.CreatedAt, &rep.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, replica.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get replica by id: %w", err)
	}

	return &rep, nil
}

// Upsert keys on admin_id so a redelivered created event cannot produce a
// duplicate row. An existing row keeps its id and has the mirrored fields
// overwritten.
func (r *ReplicaRepository) Upsert(ctx context.Context, rep *replica.Replica) error {
	const sql = `
		INSERT INTO replica_products (id, admin_id, title, image, likes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (admin_id) DO UPDATE
		SET title = EXCLUDED.title, image = EXCLUDED.image, likes = EXCLUDED.likes, updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, sql, rep.ID, rep.AdminID, rep.Title, rep.Image, rep.Likes)
	if err != nil {
		return fmt.Errorf("upsert replica: %w", err)
	}

	return nil
}

func (r *ReplicaRepository) UpdateByAdminID(ctx context.Context, adminID int64, title, image string, likes int64) (int64, error) {
	const sql = `
		UPDATE replica_products
		SET title = $2, image = $3, likes = $4, updated_at = NOW()
		WHERE admin_id = $1
	`

	tag, err := r.pool.Exec(ctx, sql, adminID, title, image, likes)
	if err != nil {
		return 0, fmt.Errorf("update replica by admin_id: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *ReplicaRepository) DeleteByAdminID(ctx context.Context, adminID int64) (int64, error) {
	const sql = `DELETE FROM replica_products WHERE admin_id = $1`

	tag, err := r.pool.Exec(ctx, sql, adminID)
	if err != nil {
		return 0, fmt.Errorf("delete replica by admin_id: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *ReplicaRepository) IncrementLikes(ctx context.Context, id string) (*replica.Replica, error) {
	const sql = `
		UPDATE replica_products
		SET likes = likes + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING id, admin_id, title, image, likes, created_at, updated_at
	`

	var rep replica.Replica
	err := r.pool.QueryRow(ctx, sql, id).Scan(&rep.ID, &rep.AdminID, &rep.Title, &rep.Image, &rep.Likes, &rep.CreatedAt, &rep.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, replica.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("increment replica likes: %w", err)
	}

	return &rep, nil
}
