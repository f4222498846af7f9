package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several consumers can
// share one cache without colliding.
//
// Example usage:
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// SolveKey generates a prefixed key for a single solve.
func (k *ScopedKeyer) SolveKey(networkHash string, diameter float64, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(networkHash, diameter, opts)
}

// SweepKey generates a prefixed key for a sweep.
func (k *ScopedKeyer) SweepKey(networkHash string, opts SweepKeyOpts) string {
	return k.prefix + k.inner.SweepKey(networkHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}
