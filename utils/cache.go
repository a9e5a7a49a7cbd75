// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"clinicbot/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient backs conversation sessions.
	SessionCacheClient *redis.Client
	// SlotLockCacheClient backs the advisory slot-hold markers.
	SlotLockCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client for conversation sessions.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SessionCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Sessions): %v", err)
	}
}

// GetSessionCacheClient returns the session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitSlotLockCache initializes the Redis client for slot-hold markers.
func InitSlotLockCache() {
	SlotLockCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSlotLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SlotLockCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Slot Locks): %v", err)
	}
}

// GetSlotLockCacheClient returns the slot-hold cache client.
func GetSlotLockCacheClient() *redis.Client {
	if SlotLockCacheClient == nil {
		InitSlotLockCache()
	}
	return SlotLockCacheClient
}
