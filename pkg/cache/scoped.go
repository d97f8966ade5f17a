package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants or
// environments can share one backend without seeing each other's entries.
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(cardHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(cardHash, opts)
}

// MeasureKey returns the prefixed measurement key.
func (k *ScopedKeyer) MeasureKey(sceneHash, surface string) string {
	return k.prefix + k.inner.MeasureKey(sceneHash, surface)
}
