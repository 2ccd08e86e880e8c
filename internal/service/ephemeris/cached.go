package ephemeris

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"Natalis/internal/domain/models"
	"Natalis/internal/domain/repository"
	"Natalis/internal/service/cache"
	applogger "Natalis/pkg/logger"
)

// Cache results as recorded by Metrics.RecordCache.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Cached serves repeated birth moments from a BytesCache. Only successful
// provider answers are stored; cache failures fall through to the provider.
type Cached struct {
	next    repository.EphemerisProvider
	cache   cache.BytesCache
	ttl     time.Duration
	metrics repository.Metrics
	log     *applogger.Logger
}

// NewCached wraps next. A nil metrics recorder is allowed.
func NewCached(next repository.EphemerisProvider, c cache.BytesCache, ttl time.Duration, m repository.Metrics, log *applogger.Logger) *Cached {
	if log == nil {
		log = applogger.Nop()
	}
	return &Cached{next: next, cache: c, ttl: ttl, metrics: m, log: log}
}

// Compute implements repository.EphemerisProvider.
func (c *Cached) Compute(ctx context.Context, req models.EphemerisRequest) (*models.EphemerisData, error) {
	key := CacheKey(req)

	b, ok, err := c.cache.GetBytes(ctx, key)
	switch {
	case err != nil:
		c.record(CacheError)
		c.log.Warn("ephemeris cache: get failed", applogger.Error(err))
	case ok:
		var data models.EphemerisData
		if jerr := json.Unmarshal(b, &data); jerr == nil {
			c.record(CacheHit)
			return &data, nil
		}
		c.record(CacheError)
	default:
		c.record(CacheMiss)
	}

	data, err := c.next.Compute(ctx, req)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(data); err == nil {
		if err := c.cache.SetBytes(ctx, key, b, c.ttl); err != nil {
			c.log.Warn("ephemeris cache: set failed", applogger.Error(err))
		}
	}
	return data, nil
}

func (c *Cached) record(result string) {
	if c.metrics != nil {
		c.metrics.RecordCache(result)
	}
}

// CacheKey identifies a provider request. Authorization is not part of it.
func CacheKey(req models.EphemerisRequest) string {
	req.Authorization = ""
	req.HouseSystem = strings.ToUpper(req.HouseSystem)
	b, _ := json.Marshal(req)
	sum := sha256.Sum256(b)
	return "ephemeris:" + hex.EncodeToString(sum[:])
}
