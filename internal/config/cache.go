package config

import "time"

// CacheConfig controls the Redis response cache.  It is applied only to the
// public seat-map and show listing routes, which serve the same body to every
// caller and are the hottest reads during on-sale windows.
type CacheConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
    MaxBody int // largest response body to cache, in bytes
}

// LoadCacheConfig reads response-cache settings from the environment.  The
// TTL defaults short so freed or claimed seats surface quickly.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled: envBool("RESPONSE_CACHE_ENABLED", true),
        TTL:     envDur("RESPONSE_CACHE_TTL", 3*time.Second),
        Prefix:  envStr("RESPONSE_CACHE_PREFIX", "seatcache"),
        MaxBody: envInt("RESPONSE_CACHE_MAX_BODY", 1<<20),
    }
}
