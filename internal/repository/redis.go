package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"staffcal/internal/config"
	"staffcal/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisBookingCache keeps per-subject booking snapshots in Redis so the
// calendar endpoints do not hit SQLite on every availability probe.
type RedisBookingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisBookingCache(client *redis.Client, ttl time.Duration) *RedisBookingCache {
	return &RedisBookingCache{
		client: client,
		ttl:    ttl,
	}
}

func snapshotKey(subjectID int64) string {
	return fmt.Sprintf("booking_snapshot:%d", subjectID)
}

func (r *RedisBookingCache) GetSnapshot(ctx context.Context, subjectID int64) ([]models.Booking, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, snapshotKey(subjectID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get snapshot from redis: %w", err)
	}

	var bookings []models.Booking
	if err := json.Unmarshal([]byte(val), &bookings); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return bookings, true, nil
}

func (r *RedisBookingCache) SetSnapshot(ctx context.Context, subjectID int64, bookings []models.Booking) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey(subjectID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot in redis: %w", err)
	}

	return nil
}

func (r *RedisBookingCache) InvalidateSubject(ctx context.Context, subjectID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, snapshotKey(subjectID)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot from redis: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
