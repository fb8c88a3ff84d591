package ports

// CachePort persists previously computed closures keyed by bundle name.
type CachePort interface {
	// Load returns the cached dependency names; a miss is (nil, false, nil).
	Load(name string) ([]string, bool, error)
	Store(name string, names []string) error
	Delete(name string) error
	// Purge removes every cache entry and reports how many were deleted.
	Purge() (int, error)
}
