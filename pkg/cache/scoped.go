package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful on the server where different projects need separate
// cache namespaces.
//
// Example usage:
//
//	// Project-specific keys
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:shop:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DocumentKey generates a prefixed key for a parsed document.
func (k *ScopedKeyer) DocumentKey(docHash string) string {
	return k.prefix + k.inner.DocumentKey(docHash)
}

// DiffKey generates a prefixed key for a diff result.
func (k *ScopedKeyer) DiffKey(oldHash, newHash string) string {
	return k.prefix + k.inner.DiffKey(oldHash, newHash)
}

// RouteKey generates a prefixed key for arrow routes.
func (k *ScopedKeyer) RouteKey(docHash string, opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(docHash, opts)
}

// RenderKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(docHash, opts)
}
