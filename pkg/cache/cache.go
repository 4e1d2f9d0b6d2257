// Package cache provides pluggable caching for derived diagram
// products: diff results, arrow routes, and rendered artifacts.
//
// Three implementations are available:
//   - FileCache: file-based cache for CLI usage
//   - RedisCache: shared cache for the API server
//   - NullCache: no-op cache for tests and disabled caching
//
// Keys are derived through a Keyer so that every cacheable product
// has a stable, collision-resistant key scheme.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL support.
// A ttl of zero means the entry does not expire.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer generates cache keys for the engine's cacheable products.
// All derived products key off document hashes (see Hash), so a
// changed document can never serve a stale product.
type Keyer interface {
	// DocumentKey generates a key for a parsed document.
	DocumentKey(docHash string) string

	// DiffKey generates a key for a diff between two document versions.
	DiffKey(oldHash, newHash string) string

	// RouteKey generates a key for computed arrow routes.
	RouteKey(docHash string, opts RouteKeyOpts) string

	// RenderKey generates a key for a rendered artifact.
	RenderKey(docHash string, opts RenderKeyOpts) string
}

// RouteKeyOpts captures everything that changes routing output.
type RouteKeyOpts struct {
	Side          string
	SelectedID    string
	ColumnWidth   float64
	ColumnSpacing float64
}

// RenderKeyOpts captures everything that changes a rendered artifact.
type RenderKeyOpts struct {
	Format string
	Side   string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for a parsed document.
func (k *DefaultKeyer) DocumentKey(docHash string) string {
	return "doc:" + docHash
}

// DiffKey generates a key for a diff between two versions.
// The pair is ordered, so a reversed diff gets its own key.
func (k *DefaultKeyer) DiffKey(oldHash, newHash string) string {
	return hashKey("diff", oldHash, newHash)
}

// RouteKey generates a key for computed arrow routes.
func (k *DefaultKeyer) RouteKey(docHash string, opts RouteKeyOpts) string {
	return hashKey("route", docHash, opts)
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return hashKey("render", docHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
