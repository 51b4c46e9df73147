// Package cache stores analysis results so repeated runs on the same
// object and parameters are instant.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the HTTP server and [NullCache] when caching is disabled. Keys come
// from a [Keyer] so that deployments can namespace them with
// [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes.
const (
	TTLReport    = 7 * 24 * time.Hour
	TTLGenealogy = 7 * 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// ReportKey addresses the report of an object analysed with a
	// parameter set. Both arguments are content hashes.
	ReportKey(objectHash, paramsHash string) string
	// GenealogyKey addresses a rendered part genealogy.
	GenealogyKey(objectHash, paramsHash, format string) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ReportKey implements Keyer.
func (DefaultKeyer) ReportKey(objectHash, paramsHash string) string {
	return hashKey("report", objectHash, paramsHash)
}

// GenealogyKey implements Keyer.
func (DefaultKeyer) GenealogyKey(objectHash, paramsHash, format string) string {
	return hashKey("genealogy", objectHash, paramsHash, format)
}
