package config

import "time"

// MetadataConfig defines how movie details are fetched from OMDb.  Lookups
// are disabled when APIKey is empty.  Fetched records are cached in Redis
// for CacheTTL under keys starting with CachePrefix when a Redis client is
// available.
type MetadataConfig struct {
    URL         string
    APIKey      string
    Timeout     time.Duration
    CacheTTL    time.Duration
    CachePrefix string
}

// LoadMetadataConfig reads the OMDB_* and METADATA_* environment variables.
func LoadMetadataConfig() MetadataConfig {
    return MetadataConfig{
        URL:         envStr("OMDB_URL", "http://www.omdbapi.com/"),
        APIKey:      envStr("OMDB_API_KEY", ""),
        Timeout:     envDur("OMDB_TIMEOUT", 3*time.Second),
        CacheTTL:    envDur("METADATA_CACHE_TTL", 24*time.Hour),
        CachePrefix: envStr("METADATA_CACHE_PREFIX", "omdb"),
    }
}

// Enabled reports whether lookups should be attempted at all.
func (m MetadataConfig) Enabled() bool {
    return m.APIKey != ""
}
