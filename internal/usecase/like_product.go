package usecase

import (
	"context"

	"productsync/internal/domain/product"
)

// LikeProduct is the admin-side increment: purely local, never calls out.
// Like counts reach the replica store through the public service's
// synchronous corridor or a later updated event, not through an event of
// their own.
type LikeProduct struct {
	products product.Repository
}

func NewLikeProduct(products product.Repository) *LikeProduct {
	return &LikeProduct{products: products}
}

func (uc *LikeProduct) Execute(ctx context.Context, id int64) (*product.Product, error) {
	return uc.products.IncrementLikes(ctx, id)
}
