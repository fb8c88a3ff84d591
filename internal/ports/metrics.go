package ports

import "time"

// ResolutionObserver receives resolution events. Implementations must
// tolerate being called from a single goroutine only.
type ResolutionObserver interface {
	CacheHit(bundle string)
	CacheMiss(bundle string)
	BundlesResolved(bundle string, count int)
	ResolutionFinished(bundle string, elapsed time.Duration)
	EntriesWritten(module string, count int)
}
