package replicator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"productsync/internal/domain/event"
	"productsync/internal/domain/replica"
	"productsync/internal/infrastructure/rabbitmq"

	"github.com/google/uuid"
)

// Applier turns decoded change events into idempotent replica store
// mutations keyed by admin_id. Duplicates and out-of-order arrivals
// degrade to no-ops, never errors.
type Applier struct {
	replicas replica.Repository
	logger   *slog.Logger
}

func NewApplier(replicas replica.Repository, logger *slog.Logger) *Applier {
	return &Applier{replicas: replicas, logger: logger}
}

// Register binds the three queues to their handlers.
func (a *Applier) Register(c *rabbitmq.Consumer) {
	c.Handle(event.QueueProductCreated, a.OnCreated)
	c.Handle(event.QueueProductUpdated, a.OnUpdated)
	c.Handle(event.QueueProductDeleted, a.OnDeleted)
}

func (a *Applier) OnCreated(ctx context.Context, body []byte) error {
	var ev event.ProductChange
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode created event: %w", err)
	}

	rep := &replica.Replica{
		ID:      uuid.NewString(),
		AdminID: ev.ID,
		Title:   ev.Title,
		Image:   ev.Image,
		Likes:   ev.Likes,
	}

	// Upsert, not insert: a redelivered created event must not produce a
	// second row for the same admin_id.
	if err := a.replicas.Upsert(ctx, rep); err != nil {
		return fmt.Errorf("apply created event: %w", err)
	}

	a.logger.Info("replica created", "admin_id", ev.ID)
	return nil
}

func (a *Applier) OnUpdated(ctx context.Context, body []byte) error {
	var ev event.ProductChange
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode updated event: %w", err)
	}

	affected, err := a.replicas.UpdateByAdminID(ctx, ev.ID, ev.Title, ev.Image, ev.Likes)
	if err != nil {
		return fmt.Errorf("apply updated event: %w", err)
	}
	if affected == 0 {
		// No replica yet; the update is dropped and the replica stays
		// behind until a later event carries the same fields.
		a.logger.Warn("updated event for unknown replica", "admin_id", ev.ID)
		return nil
	}

	a.logger.Info("replica updated", "admin_id", ev.ID)
	return nil
}

func (a *Applier) OnDeleted(ctx context.Context, body []byte) error {
	adminID, err := event.UnmarshalDeleted(body)
	if err != nil {
		return err
	}

	affected, err := a.replicas.DeleteByAdminID(ctx, adminID)
	if err != nil {
		return fmt.Errorf("apply deleted event: %w", err)
	}
	if affected == 0 {
		a.logger.Warn("deleted event for unknown replica", "admin_id", adminID)
		return nil
	}

	a.logger.Info("replica deleted", "admin_id", adminID)
	return nil
}
