package address

import (
	"context"
	"sync"

	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

// Cache stores forward (code -> place) and reverse (city -> places) lookups.
//
// A forward entry may be negative: GetPlace then returns ok=true with a nil
// place, meaning the code is known not to exist. Entries never expire.
type Cache interface {
	GetPlace(ctx context.Context, code string) (place *postal.Place, ok bool, err error)
	SetPlace(ctx context.Context, code string, place *postal.Place) error
	GetPlaces(ctx context.Context, cityKey string) ([]postal.Place, bool, error)
	SetPlaces(ctx context.Context, cityKey string, places []postal.Place) error
	// SeedPlaces stores places only when cityKey has no entry yet.
	SeedPlaces(ctx context.Context, cityKey string, places []postal.Place) error
}

// MemoryCache is a process-local, unbounded Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	codes   map[string]*postal.Place
	reverse map[string][]postal.Place
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		codes:   make(map[string]*postal.Place),
		reverse: make(map[string][]postal.Place),
	}
}

func (c *MemoryCache) GetPlace(_ context.Context, code string) (*postal.Place, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	place, ok := c.codes[code]
	if !ok || place == nil {
		return nil, ok, nil
	}
	cp := *place
	return &cp, true, nil
}

func (c *MemoryCache) SetPlace(_ context.Context, code string, place *postal.Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if place != nil {
		cp := *place
		place = &cp
	}
	c.codes[code] = place
	return nil
}

func (c *MemoryCache) GetPlaces(_ context.Context, cityKey string) ([]postal.Place, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	places, ok := c.reverse[cityKey]
	if !ok {
		return nil, false, nil
	}
	return append([]postal.Place(nil), places...), true, nil
}

func (c *MemoryCache) SetPlaces(_ context.Context, cityKey string, places []postal.Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reverse[cityKey] = append([]postal.Place(nil), places...)
	return nil
}

func (c *MemoryCache) SeedPlaces(_ context.Context, cityKey string, places []postal.Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.reverse[cityKey]; !ok {
		c.reverse[cityKey] = append([]postal.Place(nil), places...)
	}
	return nil
}
