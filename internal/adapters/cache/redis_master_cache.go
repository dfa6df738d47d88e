// Package cache provides read-through caching for master-data lookups.
// Routing steps and group membership change rarely but are read on every
// scheduling run, once per step and once per candidate machine.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"production-scheduler-service/internal/domain"
	"production-scheduler-service/internal/platform/obs"
	"production-scheduler-service/internal/ports"
)

// RedisMasterCache decorates a RoutingProvider and an EquipmentMembership
// with a Redis read-through layer. Cache failures degrade to the underlying
// providers; only provider errors are surfaced.
type RedisMasterCache struct {
	Client     *redis.Client
	Routings   ports.RoutingProvider
	Membership ports.EquipmentMembership
	TTL        time.Duration
}

func NewRedisMasterCache(
	client *redis.Client,
	routings ports.RoutingProvider,
	membership ports.EquipmentMembership,
	ttl time.Duration,
) *RedisMasterCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisMasterCache{Client: client, Routings: routings, Membership: membership, TTL: ttl}
}

func routingKey(tenantID string, productID int64) string {
	return fmt.Sprintf("routing:%s:%d", tenantID, productID)
}

func membersKey(tenantID string, groupID int64) string {
	return fmt.Sprintf("members:%s:%d", tenantID, groupID)
}

func (c *RedisMasterCache) StepsForProduct(ctx context.Context, tenantID string, productID int64) (_ []domain.RoutingStep, err error) {
	defer obs.Time(ctx, "cache.StepsForProduct")(&err)

	if c.Client == nil {
		return nil, errors.New("master cache: redis client is nil")
	}

	key := routingKey(tenantID, productID)
	if raw, err := c.Client.Get(ctx, key).Bytes(); err == nil {
		var steps []domain.RoutingStep
		if err := json.Unmarshal(raw, &steps); err == nil {
			return steps, nil
		}
		// A corrupt value is dropped and refilled from the provider.
		log.Printf("master cache: discard corrupt value key=%s", key)
		_ = c.Client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("master cache: get failed key=%s err=%v", key, err)
	}

	steps, err := c.Routings.StepsForProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(steps); err == nil {
		if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
			log.Printf("master cache: set failed key=%s err=%v", key, err)
		}
	}
	return steps, nil
}

func (c *RedisMasterCache) MembersOfGroup(ctx context.Context, tenantID string, groupID int64) (_ []int64, err error) {
	defer obs.Time(ctx, "cache.MembersOfGroup")(&err)

	if c.Client == nil {
		return nil, errors.New("master cache: redis client is nil")
	}

	key := membersKey(tenantID, groupID)
	if raw, err := c.Client.Get(ctx, key).Bytes(); err == nil {
		var ids []int64
		if err := json.Unmarshal(raw, &ids); err == nil {
			return ids, nil
		}
		log.Printf("master cache: discard corrupt value key=%s", key)
		_ = c.Client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("master cache: get failed key=%s err=%v", key, err)
	}

	ids, err := c.Membership.MembersOfGroup(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(ids); err == nil {
		if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
			log.Printf("master cache: set failed key=%s err=%v", key, err)
		}
	}
	return ids, nil
}

// InvalidateProduct drops a product's cached routing. Called after routing
// master data changes.
func (c *RedisMasterCache) InvalidateProduct(ctx context.Context, tenantID string, productID int64) {
	if err := c.Client.Del(ctx, routingKey(tenantID, productID)).Err(); err != nil {
		log.Printf("master cache: invalidate failed product=%d err=%v", productID, err)
	}
}

// InvalidateGroup drops a group's cached membership. Called after group
// membership changes.
func (c *RedisMasterCache) InvalidateGroup(ctx context.Context, tenantID string, groupID int64) {
	if err := c.Client.Del(ctx, membersKey(tenantID, groupID)).Err(); err != nil {
		log.Printf("master cache: invalidate failed group=%d err=%v", groupID, err)
	}
}
