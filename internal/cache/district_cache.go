package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nightcity/internal/config"
	"nightcity/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

const (
	districtListKey    = "districts:all"
	defaultDistrictTTL = 5 * time.Minute
)

// DistrictCache keeps the district list in Redis.
type DistrictCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisClient builds a client from config. It returns nil when Redis is not configured.
func NewRedisClient(cfg config.Redis) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// LoadDistricts returns the cached list. hit is false on a miss.
func (c DistrictCache) LoadDistricts(ctx context.Context) (list []models.District, hit bool, err error) {
	raw, err := c.Client.Get(ctx, districtListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read district cache: %w", err)
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, fmt.Errorf("decode district cache: %w", err)
	}
	return list, true, nil
}

func (c DistrictCache) StoreDistricts(ctx context.Context, list []models.District) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode district cache: %w", err)
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = defaultDistrictTTL
	}
	if err := c.Client.Set(ctx, districtListKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("write district cache: %w", err)
	}
	return nil
}

func (c DistrictCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, districtListKey).Err()
}
