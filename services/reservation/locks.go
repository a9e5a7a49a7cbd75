package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// HoldTTL bounds how long a slot stays soft-held after a user picks it in the
// conversation. Expiry is the backstop; explicit release happens on commit,
// cancel and flow abandonment.
const HoldTTL = 10 * time.Minute

const opTimeout = 2 * time.Second

// SlotHoldCache is the advisory slot-hold collaborator. Holds reduce
// collisions between concurrent conversations; they never decide a commit.
type SlotHoldCache interface {
	// Hold marks a slot as held by userID. Returns false if another user
	// already holds it.
	Hold(ctx context.Context, date, timeStr, userID string) (bool, error)
	// Holder returns the user currently holding the slot, or "" if none.
	Holder(ctx context.Context, date, timeStr string) (string, error)
	// Release drops the hold regardless of holder.
	Release(ctx context.Context, date, timeStr string) error
	// HeldTimes returns the held slot times for a date, excluding holds
	// owned by userID (a user's own hold should not hide the slot from them).
	HeldTimes(ctx context.Context, date string, grid []string, userID string) ([]string, error)
}

// RedisSlotHoldCache implements SlotHoldCache on a dedicated Redis DB. TTL
// enforcement is delegated entirely to Redis key expiry.
type RedisSlotHoldCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotHoldCache(client *redis.Client) *RedisSlotHoldCache {
	return &RedisSlotHoldCache{client: client, ttl: HoldTTL}
}

func holdKey(date, timeStr string) string {
	return fmt.Sprintf("slot:hold:%s_%s", date, timeStr)
}

func (c *RedisSlotHoldCache) Hold(ctx context.Context, date, timeStr, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ok, err := c.client.SetNX(ctx, holdKey(date, timeStr), userID, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to hold slot %s %s: %w", date, timeStr, err)
	}
	if ok {
		return true, nil
	}

	// SetNX lost; the hold may still be ours from an earlier turn.
	holder, err := c.client.Get(ctx, holdKey(date, timeStr)).Result()
	if err == redis.Nil {
		// Expired between SetNX and Get; retry once.
		ok, err := c.client.SetNX(ctx, holdKey(date, timeStr), userID, c.ttl).Result()
		if err != nil {
			return false, fmt.Errorf("failed to hold slot %s %s: %w", date, timeStr, err)
		}
		return ok, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read slot hold %s %s: %w", date, timeStr, err)
	}
	if holder == userID {
		// Refresh the TTL for the same user re-selecting the slot.
		c.client.Expire(ctx, holdKey(date, timeStr), c.ttl)
		return true, nil
	}
	return false, nil
}

func (c *RedisSlotHoldCache) Holder(ctx context.Context, date, timeStr string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	holder, err := c.client.Get(ctx, holdKey(date, timeStr)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read slot hold %s %s: %w", date, timeStr, err)
	}
	return holder, nil
}

func (c *RedisSlotHoldCache) Release(ctx context.Context, date, timeStr string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, holdKey(date, timeStr)).Err(); err != nil {
		return fmt.Errorf("failed to release slot hold %s %s: %w", date, timeStr, err)
	}
	return nil
}

func (c *RedisSlotHoldCache) HeldTimes(ctx context.Context, date string, grid []string, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	keys := make([]string, len(grid))
	for i, t := range grid {
		keys[i] = holdKey(date, t)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read slot holds for %s: %w", date, err)
	}

	var held []string
	for i, v := range values {
		holder, ok := v.(string)
		if !ok || holder == "" || holder == userID {
			continue
		}
		held = append(held, grid[i])
	}
	return held, nil
}
