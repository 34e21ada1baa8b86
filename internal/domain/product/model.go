package product

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("product not found")

// Product is the canonical record, owned by the admin store.
type Product struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id int64, title, image string) (*Product, error)
	Delete(ctx context.Context, id int64) (int64, error)
	IncrementLikes(ctx context.Context, id int64) (*Product, error)
}
