package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"productsync/internal/domain/event"
	"productsync/internal/domain/product"
)

var ErrInvalidInput = errors.New("title and image are required")

type CreateProduct struct {
	products  product.Repository
	publisher event.Publisher
}

func NewCreateProduct(products product.Repository, publisher event.Publisher) *CreateProduct {
	return &CreateProduct{products: products, publisher: publisher}
}

type CreateProductParams struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

func (uc *CreateProduct) Execute(ctx context.Context, params CreateProductParams) (*product.Product, error) {
	if params.Title == "" || params.Image == "" {
		return nil, ErrInvalidInput
	}

	p := &product.Product{
		Title: params.Title,
		Image: params.Image,
		Likes: 0,
	}

	if err := uc.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	payload, err := json.Marshal(event.ProductChange{
		ID:    p.ID,
		Title: p.Title,
		Image: p.Image,
		Likes: p.Likes,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal created event: %w", err)
	}

	// The insert is already committed; a publish failure fails the request
	// but the record stays, and its event is lost.
	if err := uc.publisher.Publish(ctx, event.QueueProductCreated, payload); err != nil {
		return nil, fmt.Errorf("publish created event: %w", err)
	}

	return p, nil
}
