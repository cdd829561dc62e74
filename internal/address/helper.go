// Package address resolves postal codes to cities and back. Results are
// cached, concurrent lookups of the same code share one remote call, and a
// reference table answers when the remote service is unavailable.
package address

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/PratikDhanave/lodging-intake-service/internal/metrics"
	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

// MinCityLength is the shortest city name a reverse lookup is attempted for.
const MinCityLength = 3

var (
	ErrNotFound     = errors.New("no matching place found")
	ErrLookupFailed = errors.New("lookup failed, please enter manually")
	ErrCityTooShort = errors.New("city name must have at least 3 characters")
)

// Source tells where a lookup result came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
	SourceTable  Source = "table"
)

// Result is a resolved postal code.
type Result struct {
	postal.Place
	Source Source `json:"source"`
}

// Remote resolves a postal code through an external service.
type Remote interface {
	Lookup(ctx context.Context, code string) (postal.Place, bool, error)
}

// Helper is the address lookup helper. The zero value is not usable; use
// NewHelper.
type Helper struct {
	remote    Remote
	gazetteer postal.Gazetteer
	cache     Cache
	logger    *zap.Logger
	group     singleflight.Group
}

// NewHelper wires a helper. remote may be nil, in which case the gazetteer is
// the primary source. A nil gazetteer or cache selects the built-in table and
// an in-memory cache.
func NewHelper(remote Remote, gazetteer postal.Gazetteer, cache Cache, logger *zap.Logger) *Helper {
	if gazetteer == nil {
		gazetteer = postal.NewStaticGazetteer()
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Helper{
		remote:    remote,
		gazetteer: gazetteer,
		cache:     cache,
		logger:    logger,
	}
}

// CityByCode resolves a 5-digit postal code to its city.
//
// Invalid codes return a postal validation error, unknown codes ErrNotFound.
// ErrLookupFailed means neither the remote service nor the reference table
// could answer.
func (h *Helper) CityByCode(ctx context.Context, code string) (Result, error) {
	code = strings.TrimSpace(code)
	if err := postal.ValidateCode(code); err != nil {
		return Result{}, err
	}

	start := time.Now()
	defer func() {
		metrics.LookupDuration.WithLabelValues("code").Observe(time.Since(start).Seconds())
	}()

	place, ok, err := h.cache.GetPlace(ctx, code)
	if err != nil {
		h.logger.Warn("reading postal code cache failed", zap.String("code", code), zap.Error(err))
	} else if ok {
		metrics.Lookups.WithLabelValues("code", string(SourceCache)).Inc()
		if place == nil {
			h.logger.Debug("postal code known missing", zap.String("code", code))
			return Result{}, ErrNotFound
		}
		h.logger.Debug("postal code from cache", zap.String("code", code), zap.String("city", place.City))
		return Result{Place: *place, Source: SourceCache}, nil
	}

	// The shared call must outlive a cancelled caller; the remote client's
	// own timeout bounds it.
	shared := context.WithoutCancel(ctx)
	ch := h.group.DoChan(code, func() (any, error) {
		if h.remote == nil {
			return h.fromGazetteer(shared, code)
		}
		return h.fromRemote(shared, code)
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Result{}, r.Err
		}
		return r.Val.(Result), nil
	}
}

func (h *Helper) fromRemote(ctx context.Context, code string) (Result, error) {
	place, found, err := h.remote.Lookup(ctx, code)
	if err != nil {
		h.logger.Error("remote postal code lookup failed", zap.String("code", code), zap.Error(err))
		return h.fallback(ctx, code)
	}

	if !found {
		metrics.Lookups.WithLabelValues("code", string(SourceRemote)).Inc()
		h.storePlace(ctx, code, nil)
		h.logger.Warn("postal code not found", zap.String("code", code))
		return Result{}, ErrNotFound
	}

	metrics.Lookups.WithLabelValues("code", string(SourceRemote)).Inc()
	h.storePlace(ctx, code, &place)
	h.seedReverse(ctx, place)
	h.logger.Debug("postal code resolved remotely", zap.String("code", code), zap.String("city", place.City))
	return Result{Place: place, Source: SourceRemote}, nil
}

// fallback answers from the reference table after a remote failure. Its
// results are not cached so the next request retries the remote service.
func (h *Helper) fallback(ctx context.Context, code string) (Result, error) {
	place, ok, err := h.gazetteer.LookupCode(ctx, code)
	if err != nil {
		h.logger.Error("reference table lookup failed", zap.String("code", code), zap.Error(err))
		return Result{}, ErrLookupFailed
	}
	if !ok {
		return Result{}, ErrLookupFailed
	}

	metrics.Lookups.WithLabelValues("code", string(SourceTable)).Inc()
	return Result{Place: place, Source: SourceTable}, nil
}

func (h *Helper) fromGazetteer(ctx context.Context, code string) (Result, error) {
	place, ok, err := h.gazetteer.LookupCode(ctx, code)
	if err != nil {
		h.logger.Error("reference table lookup failed", zap.String("code", code), zap.Error(err))
		return Result{}, ErrLookupFailed
	}

	metrics.Lookups.WithLabelValues("code", string(SourceTable)).Inc()
	if !ok {
		h.storePlace(ctx, code, nil)
		return Result{}, ErrNotFound
	}

	h.storePlace(ctx, code, &place)
	h.seedReverse(ctx, place)
	return Result{Place: place, Source: SourceTable}, nil
}

func (h *Helper) storePlace(ctx context.Context, code string, place *postal.Place) {
	if err := h.cache.SetPlace(ctx, code, place); err != nil {
		h.logger.Warn("writing postal code cache failed", zap.String("code", code), zap.Error(err))
	}
}

func (h *Helper) seedReverse(ctx context.Context, place postal.Place) {
	if place.City == "" {
		return
	}
	key := postal.NormalizeCity(place.City)
	if err := h.cache.SeedPlaces(ctx, key, []postal.Place{place}); err != nil {
		h.logger.Warn("seeding city cache failed", zap.String("city", key), zap.Error(err))
	}
}

// CodesByCity resolves a city name to its known postal codes. More than one
// result means the name is ambiguous and the caller should let the user pick.
func (h *Helper) CodesByCity(ctx context.Context, city string) ([]postal.Place, error) {
	name := strings.TrimSpace(city)
	if utf8.RuneCountInString(name) < MinCityLength {
		return nil, ErrCityTooShort
	}

	start := time.Now()
	defer func() {
		metrics.LookupDuration.WithLabelValues("city").Observe(time.Since(start).Seconds())
	}()

	key := postal.NormalizeCity(name)
	cached, ok, err := h.cache.GetPlaces(ctx, key)
	if err != nil {
		h.logger.Warn("reading city cache failed", zap.String("city", key), zap.Error(err))
	} else if ok && len(cached) > 0 {
		metrics.Lookups.WithLabelValues("city", string(SourceCache)).Inc()
		return cached, nil
	}

	codes, err := h.gazetteer.CodesForCity(ctx, key)
	if err != nil {
		h.logger.Error("reference table city lookup failed", zap.String("city", key), zap.Error(err))
		return nil, ErrLookupFailed
	}
	metrics.Lookups.WithLabelValues("city", string(SourceTable)).Inc()
	if len(codes) == 0 {
		h.logger.Warn("no postal codes known for city", zap.String("city", key))
		return nil, ErrNotFound
	}

	places := make([]postal.Place, 0, len(codes))
	// A list built while the remote service was failing is incomplete and
	// must not outlive the outage.
	partial := false
	for _, code := range codes {
		res, err := h.CityByCode(ctx, code)
		if err != nil {
			if errors.Is(err, ErrLookupFailed) {
				partial = true
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			h.logger.Debug("skipping postal code of city", zap.String("city", key), zap.String("code", code), zap.Error(err))
			continue
		}
		if res.Source == SourceTable && h.remote != nil {
			partial = true
		}
		places = append(places, res.Place)
	}
	if len(places) == 0 {
		if partial {
			return nil, ErrLookupFailed
		}
		return nil, ErrNotFound
	}

	if partial {
		h.logger.Debug("not caching city resolved during remote outage", zap.String("city", key))
		return places, nil
	}
	if err := h.cache.SetPlaces(ctx, key, places); err != nil {
		h.logger.Warn("writing city cache failed", zap.String("city", key), zap.Error(err))
	}
	return places, nil
}
