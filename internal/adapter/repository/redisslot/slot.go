package redisslot

import (
	"context"
	"errors"
	"log"

	"cuotas-backend/internal/adapter/repository/blob"
	domain "cuotas-backend/internal/domain/debt"

	"github.com/redis/go-redis/v9"
)

// Gateway keeps the collection under a single redis key with no expiry.
type Gateway struct {
	rdb *redis.Client
	key string
}

var _ domain.Gateway = (*Gateway)(nil)

func NewGateway(rdb *redis.Client, key string) *Gateway { return &Gateway{rdb: rdb, key: key} }

func (g *Gateway) Load(ctx context.Context) []domain.Debt {
	raw, err := g.rdb.Get(ctx, g.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Debt{}
	}
	if err != nil {
		log.Printf("redisslot: load %s: %v", g.key, err)
		return []domain.Debt{}
	}
	out, err := blob.DecodeOrEmpty(raw)
	if err != nil {
		log.Printf("redisslot: discarding unreadable slot %s: %v", g.key, err)
	}
	return out
}

func (g *Gateway) Save(ctx context.Context, debts []domain.Debt) {
	raw, err := blob.Encode(debts)
	if err != nil {
		log.Printf("redisslot: encode %s: %v", g.key, err)
		return
	}
	if err := g.rdb.Set(ctx, g.key, raw, 0).Err(); err != nil {
		log.Printf("redisslot: save %s: %v", g.key, err)
	}
}
