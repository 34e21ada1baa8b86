package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"productsync/internal/domain/event"
	"productsync/internal/domain/product"
)

type UpdateProduct struct {
	products  product.Repository
	publisher event.Publisher
}

func NewUpdateProduct(products product.Repository, publisher event.Publisher) *UpdateProduct {
	return &UpdateProduct{products: products, publisher: publisher}
}

type UpdateProductParams struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

func (uc *UpdateProduct) Execute(ctx context.Context, params UpdateProductParams) (*product.Product, error) {
	if params.Title == "" || params.Image == "" {
		return nil, ErrInvalidInput
	}

	p, err := uc.products.Update(ctx, params.ID, params.Title, params.Image)
	if err != nil {
		return nil, err
	}

	// The event carries the post-update snapshot so the replica mirrors the
	// canonical row, including the current like count.
	payload, err := json.Marshal(event.ProductChange{
		ID:    p.ID,
		Title: p.Title,
		Image: p.Image,
		Likes: p.Likes,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal updated event: %w", err)
	}

	if err := uc.publisher.Publish(ctx, event.QueueProductUpdated, payload); err != nil {
		return nil, fmt.Errorf("publish updated event: %w", err)
	}

	return p, nil
}
