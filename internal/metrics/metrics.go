package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type cacheStats struct {
	lookups       map[string]int
	refreshes     int
	refreshErrors int
	evictions     int
}

// Recorder captures lightweight, in-memory metrics about provider calls and cache activity.
// When built by Setup it also forwards every observation to OpenTelemetry instruments.
type Recorder struct {
	mu        sync.Mutex
	providers map[string]*providerStats
	caches    map[string]*cacheStats
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		providers: make(map[string]*providerStats),
		caches:    make(map[string]*cacheStats),
		otel:      otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.providerStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.providerStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordCacheLookup counts one cache access for the namespace, labelled by outcome.
func (r *Recorder) RecordCacheLookup(namespace, outcome string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.cacheStats(namespace).lookups[outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(namespace, outcome)
	}
}

// RecordCacheRefresh tracks a completed fetch that wrote a cache entry.
func (r *Recorder) RecordCacheRefresh(namespace string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.cacheStats(namespace)
	stats.refreshes++
	if err != nil {
		stats.refreshErrors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheRefresh(namespace, duration, err)
	}
}

// RecordCacheEvictions counts entries dropped after their eviction window elapsed.
func (r *Recorder) RecordCacheEvictions(namespace string, n int) {
	if r == nil || n <= 0 {
		return
	}

	r.mu.Lock()
	r.cacheStats(namespace).evictions += n
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheEvictions(namespace, n)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.providers[provider]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// CacheSnapshot is a copy of the counters kept for one cache namespace.
type CacheSnapshot struct {
	Lookups       map[string]int
	Refreshes     int
	RefreshErrors int
	Evictions     int
}

// LookupsFor returns the number of lookups recorded for outcome.
func (s CacheSnapshot) LookupsFor(outcome string) int {
	return s.Lookups[outcome]
}

func (r *Recorder) CacheSnapshot(namespace string) CacheSnapshot {
	if r == nil {
		return CacheSnapshot{Lookups: map[string]int{}}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := CacheSnapshot{Lookups: make(map[string]int)}
	stats, ok := r.caches[namespace]
	if !ok {
		return out
	}
	for k, v := range stats.lookups {
		out.Lookups[k] = v
	}
	out.Refreshes = stats.refreshes
	out.RefreshErrors = stats.refreshErrors
	out.Evictions = stats.evictions
	return out
}

// providerStats must be called with r.mu held.
func (r *Recorder) providerStats(provider string) *providerStats {
	stats, ok := r.providers[provider]
	if !ok {
		stats = &providerStats{}
		r.providers[provider] = stats
	}
	return stats
}

// cacheStats must be called with r.mu held.
func (r *Recorder) cacheStats(namespace string) *cacheStats {
	stats, ok := r.caches[namespace]
	if !ok {
		stats = &cacheStats{lookups: make(map[string]int)}
		r.caches[namespace] = stats
	}
	return stats
}
