// Package storage provides the key-value substrate the feed persists into.
// Values are UTF-8 text, typically JSON-encoded. There are no transactions
// and no multi-writer safety; callers own serialization of writes.
package storage

// Substrate is the persistence port injected into the feed store.
type Substrate interface {
	// Get returns the value for key. The boolean is false when the key is
	// absent; absence is not an error.
	Get(key string) (string, bool, error)
	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error
	// Close releases underlying resources.
	Close() error
}
