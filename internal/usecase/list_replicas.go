package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"productsync/internal/domain/replica"

	"github.com/redis/go-redis/v9"
)

const replicaListCacheKey = "replicas:all"

type ListReplicas struct {
	redisClient *redis.Client
	replicas    replica.Repository
}

func NewListReplicas(redisClient *redis.Client, replicas replica.Repository) *ListReplicas {
	return &ListReplicas{redisClient: redisClient, replicas: replicas}
}

func (uc *ListReplicas) Execute(ctx context.Context) ([]replica.Replica, error) {
	if uc.redisClient != nil {
		val, err := uc.redisClient.Get(ctx, replicaListCacheKey).Result()
		if err == nil {
			var cached []replica.Replica
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	replicas, err := uc.replicas.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list replicas: %w", err)
	}
	if replicas == nil {
		replicas = []replica.Replica{}
	}

	if uc.redisClient != nil {
		data, _ := json.Marshal(replicas)
		// Short TTL: the list goes stale the moment the consumer applies
		// the next event.
		uc.redisClient.Set(ctx, replicaListCacheKey, data, 1*time.Second)
	}

	return replicas, nil
}
