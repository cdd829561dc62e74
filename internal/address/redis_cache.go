package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

// DefaultRedisPrefix namespaces the keys written by RedisCache.
const DefaultRedisPrefix = "intake:"

// RedisCache is a Cache shared between processes through Redis. Values are
// JSON encoded and stored without expiry; negative entries are stored as null.
type RedisCache struct {
	client redis.Cmdable
	prefix string
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) codeKey(code string) string { return c.prefix + "code:" + code }

func (c *RedisCache) cityKey(city string) string { return c.prefix + "city:" + city }

func (c *RedisCache) GetPlace(ctx context.Context, code string) (*postal.Place, bool, error) {
	raw, err := c.client.Get(ctx, c.codeKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", code, err)
	}

	var place *postal.Place
	if err := json.Unmarshal(raw, &place); err != nil {
		return nil, false, fmt.Errorf("decoding cached place %s: %w", code, err)
	}
	return place, true, nil
}

func (c *RedisCache) SetPlace(ctx context.Context, code string, place *postal.Place) error {
	raw, err := json.Marshal(place)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.codeKey(code), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", code, err)
	}
	return nil
}

func (c *RedisCache) GetPlaces(ctx context.Context, cityKey string) ([]postal.Place, bool, error) {
	raw, err := c.client.Get(ctx, c.cityKey(cityKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get city %s: %w", cityKey, err)
	}

	var places []postal.Place
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, false, fmt.Errorf("decoding cached city %s: %w", cityKey, err)
	}
	return places, true, nil
}

func (c *RedisCache) SetPlaces(ctx context.Context, cityKey string, places []postal.Place) error {
	raw, err := json.Marshal(places)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.cityKey(cityKey), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set city %s: %w", cityKey, err)
	}
	return nil
}

func (c *RedisCache) SeedPlaces(ctx context.Context, cityKey string, places []postal.Place) error {
	raw, err := json.Marshal(places)
	if err != nil {
		return err
	}
	if err := c.client.SetNX(ctx, c.cityKey(cityKey), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis setnx city %s: %w", cityKey, err)
	}
	return nil
}
