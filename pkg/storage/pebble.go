package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"elele/pkg/logger"
)

// Pebble is a Substrate backed by a Pebble database on disk. Writes are
// synced so a crash after a mutation does not lose it.
type Pebble struct {
	db   *pebble.DB
	path string
}

// OpenPebble opens (or creates) a Pebble database at the given path.
func OpenPebble(path string) (*Pebble, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, err
	}
	logger.Info("pebble_opened", "path", path)
	return &Pebble{db: db, path: path}, nil
}

// Get returns the value stored under key, or false when absent.
func (p *Pebble) Get(key string) (string, bool, error) {
	if p.db == nil {
		return "", false, fmt.Errorf("pebble not opened; call OpenPebble first")
	}
	v, closer, err := p.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return "", false, nil
		}
		logger.Error("get_key_failed", "key", key, "error", err)
		return "", false, err
	}
	if closer != nil {
		defer closer.Close()
	}
	out := string(v)
	logger.Debug("get_key_ok", "key", key, "len", len(out))
	return out, true, nil
}

// Set stores value under key with a synced write.
func (p *Pebble) Set(key, value string) error {
	if p.db == nil {
		return fmt.Errorf("pebble not opened; call OpenPebble first")
	}
	if err := p.db.Set([]byte(key), []byte(value), pebble.Sync); err != nil {
		logger.Error("set_key_failed", "key", key, "error", err)
		return err
	}
	logger.Debug("set_key_ok", "key", key, "len", len(value))
	return nil
}

// Close closes the underlying Pebble database.
func (p *Pebble) Close() error {
	if p.db == nil {
		return nil
	}
	if err := p.db.Close(); err != nil {
		return err
	}
	p.db = nil
	logger.Info("pebble_closed", "path", p.path)
	return nil
}

// Path returns the on-disk location of the database.
func (p *Pebble) Path() string { return p.path }
