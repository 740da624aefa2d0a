package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Houeta/transitlink/internal/cache"
	"github.com/Houeta/transitlink/internal/geocoding"
	"github.com/Houeta/transitlink/internal/metrics"
	"github.com/Houeta/transitlink/internal/models"
)

// NamedProvider couples a geocoding provider with the name used for logging
// and metrics labels.
type NamedProvider struct {
	Name     string
	Provider geocoding.Provider
}

// Resolver turns an address entry into coordinates. It consults the
// persistent cache first and then walks the provider chain in order,
// stopping at the first non-empty result. Provider failures are recovered
// locally: the resolver never returns an error, absence of coordinates is a
// normal outcome.
type Resolver struct {
	log        *slog.Logger     // Logger for logging resolver activities
	cache      *cache.Cache     // Persistent address -> coordinates cache
	providers  []NamedProvider  // Ordered provider chain, primary first
	metrics    *metrics.Metrics // Metrics for tracking resolution outcomes
	addrPrefix string           // Prefix prepended before geocoding (city/country context)
}

// NewResolver creates a new Resolver over the given cache and ordered
// provider chain. addrPrefix is prepended to every geocoded address to give
// the providers geographic context; it is part of the cache key.
func NewResolver(
	log *slog.Logger,
	cch *cache.Cache,
	providers []NamedProvider,
	mtr *metrics.Metrics,
	addrPrefix string,
) *Resolver {
	return &Resolver{
		log:        log,
		cache:      cch,
		providers:  providers,
		metrics:    mtr,
		addrPrefix: addrPrefix,
	}
}

// Resolve returns the coordinates for one entry, or nil when the entry could
// not be resolved. Entries carrying an explicit override are returned as-is
// without touching the cache or the network.
func (r *Resolver) Resolve(ctx context.Context, entry models.AddressEntry) *models.Coordinates {
	if entry.Override != nil {
		r.metrics.AddressesResolved.WithLabelValues("override").Inc()
		return entry.Override
	}

	normalized := r.addrPrefix + entry.Target

	if coords, known := r.cache.Get(normalized); known {
		r.metrics.CacheHits.Inc()
		if coords == nil {
			r.log.DebugContext(ctx, "Cached unresolved marker", "address", normalized)
			return nil
		}
		r.log.DebugContext(ctx, "Cache hit", "address", normalized)
		r.metrics.AddressesResolved.WithLabelValues("cache").Inc()
		return coords
	}

	for _, np := range r.providers {
		startTime := time.Now()
		coords, err := np.Provider.Geocode(ctx, normalized)
		r.metrics.RequestSeconds.WithLabelValues(np.Name).Observe(time.Since(startTime).Seconds())

		if err != nil {
			// Treat every provider failure as an empty result and fall
			// through to the next provider in the chain.
			r.log.WarnContext(ctx, "Provider returned no result",
				"provider", np.Name, "address", normalized, "error", err)
			r.metrics.ProviderErrors.WithLabelValues(np.Name).Inc()
			continue
		}

		r.cache.Put(normalized, coords)
		r.metrics.AddressesResolved.WithLabelValues(np.Name).Inc()
		return coords
	}

	r.log.WarnContext(ctx, "All providers exhausted", "address", normalized)
	r.cache.Put(normalized, nil)
	r.metrics.Unresolved.Inc()
	return nil
}
