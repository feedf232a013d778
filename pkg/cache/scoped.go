package cache

// ScopedKeyer wraps a Keyer with a prefix so that responses from different
// API endpoints or universities never share entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), ScopeFor(baseURL, universityID))
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// ScopeFor derives a short, stable prefix from the components that identify
// an upstream data source.
func ScopeFor(parts ...string) string {
	return hashKey("scope", parts)[len("scope:"):][:12] + ":"
}
