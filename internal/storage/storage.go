// Package storage provides a disk-backed cache for tablebase probe results,
// keyed by a 64-bit digest of (position hash, side to move)
// and backed by BadgerDB, so that a local or network probe performed once
// survives process restarts.
package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
)

// ProbeCache is a disk-backed cache mapping a probe key to a compressed
// value blob. It knows nothing about the tablebase package's types: callers
// marshal/unmarshal their own ProbeResult before calling Put/Get, keeping
// this package reusable independent of the probing engine's data model.
type ProbeCache struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewProbeCache opens (creating if necessary) a BadgerDB-backed cache at
// the platform-specific database directory.
func NewProbeCache() (*ProbeCache, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, fmt.Errorf("resolving database dir: %w", err)
	}
	return openProbeCache(dbDir)
}

// OpenProbeCacheAt opens a BadgerDB-backed cache at an explicit directory,
// bypassing the platform-specific default. Tests use this to avoid touching
// the real user data directory.
func OpenProbeCacheAt(dir string) (*ProbeCache, error) {
	return openProbeCache(dir)
}

func openProbeCache(dbDir string) (*ProbeCache, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening probe cache: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("building zstd encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("building zstd decoder: %w", err)
	}

	return &ProbeCache{db: db, encoder: enc, decoder: dec}, nil
}

// Close releases the underlying database handle.
func (c *ProbeCache) Close() error {
	c.decoder.Close()
	return c.db.Close()
}

// Get returns the cached value for key, if present. The returned slice is
// owned by the caller (it is a fresh decompression, not a view into Badger's
// internal buffers).
func (c *ProbeCache) Get(key uint64) (value []byte, found bool, err error) {
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyBytes(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(compressed []byte) error {
			decompressed, derr := c.decoder.DecodeAll(compressed, nil)
			if derr != nil {
				return derr
			}
			value = decompressed
			found = true
			return nil
		})
	})
	return value, found, err
}

// Put stores value under key, zstd-compressed.
func (c *ProbeCache) Put(key uint64, value []byte) error {
	compressed := c.encoder.EncodeAll(value, nil)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyBytes(key), compressed)
	})
}

// Len returns the number of entries currently stored, scanning all keys.
// Intended for diagnostics, not hot paths.
func (c *ProbeCache) Len() (int, error) {
	count := 0
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func keyBytes(key uint64) []byte {
	var buf bytes.Buffer
	buf.Grow(8)
	_ = binary.Write(&buf, binary.BigEndian, key)
	return buf.Bytes()
}
