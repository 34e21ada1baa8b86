package usecase

import (
	"context"

	"productsync/internal/domain/product"
)

type GetProduct struct {
	products product.Repository
}

func NewGetProduct(products product.Repository) *GetProduct {
	return &GetProduct{products: products}
}

func (uc *GetProduct) Execute(ctx context.Context, id int64) (*product.Product, error) {
	return uc.products.GetByID(ctx, id)
}
