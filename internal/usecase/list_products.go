package usecase

import (
	"context"
	"fmt"

	"productsync/internal/domain/product"
)

type ListProducts struct {
	products product.Repository
}

func NewListProducts(products product.Repository) *ListProducts {
	return &ListProducts{products: products}
}

func (uc *ListProducts) Execute(ctx context.Context) ([]product.Product, error) {
	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}
