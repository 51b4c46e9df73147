package cache

// ScopedKeyer prefixes every key of another Keyer, so several deployments
// can share one redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReportKey implements Keyer.
func (k *ScopedKeyer) ReportKey(objectHash, paramsHash string) string {
	return k.prefix + k.inner.ReportKey(objectHash, paramsHash)
}

// GenealogyKey implements Keyer.
func (k *ScopedKeyer) GenealogyKey(objectHash, paramsHash, format string) string {
	return k.prefix + k.inner.GenealogyKey(objectHash, paramsHash, format)
}
