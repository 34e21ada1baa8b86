package usecase

import (
	"context"
	"fmt"

	"productsync/internal/domain/event"
	"productsync/internal/domain/replica"

	"github.com/redis/go-redis/v9"
)

// AdminGateway is the synchronous call into the admin service used by the
// like corridor.
type AdminGateway interface {
	LikeProduct(ctx context.Context, adminID int64) (*event.ProductChange, error)
}

// LikeReplica is the one cross-service synchronous path. The remote
// increment runs first; only on success is the local counter touched, so a
// remote failure leaves both counters unchanged instead of permanently
// desynchronized.
type LikeReplica struct {
	replicas    replica.Repository
	admin       AdminGateway
	redisClient *redis.Client
}

func NewLikeReplica(replicas replica.Repository, admin AdminGateway, redisClient *redis.Client) *LikeReplica {
	return &LikeReplica{replicas: replicas, admin: admin, redisClient: redisClient}
}

func (uc *LikeReplica) Execute(ctx context.Context, id string) (*replica.Replica, error) {
	rep, err := uc.replicas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := uc.admin.LikeProduct(ctx, rep.AdminID); err != nil {
		return nil, fmt.Errorf("sync like to admin store: %w", err)
	}

	updated, err := uc.replicas.IncrementLikes(ctx, rep.ID)
	if err != nil {
		return nil, fmt.Errorf("increment replica likes: %w", err)
	}

	if uc.redisClient != nil {
		uc.redisClient.Del(ctx, replicaListCacheKey)
	}

	return updated, nil
}
