package usecase

import (
	"context"
	"fmt"

	"productsync/internal/domain/event"
	"productsync/internal/domain/product"
)

type DeleteProduct struct {
	products  product.Repository
	publisher event.Publisher
}

func NewDeleteProduct(products product.Repository, publisher event.Publisher) *DeleteProduct {
	return &DeleteProduct{products: products, publisher: publisher}
}

// Execute deletes the product and publishes the deleted event. The event is
// published even when no row was deleted; the consumer treats a delete for
// an unknown admin_id as a no-op.
func (uc *DeleteProduct) Execute(ctx context.Context, id int64) (int64, error) {
	affected, err := uc.products.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}

	if err := uc.publisher.Publish(ctx, event.QueueProductDeleted, event.MarshalDeleted(id)); err != nil {
		return affected, fmt.Errorf("publish deleted event: %w", err)
	}

	return affected, nil
}
