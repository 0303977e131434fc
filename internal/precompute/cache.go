package precompute

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Noofbiz/authorProfiling/datasets"
)

// CacheVersion is incremented when the on-disk cache format changes.
const CacheVersion = 2

// Cache is the on-disk representation of precomputed records. It carries the
// metadata needed to detect a cache built for another dataset. Params
// describes the encoder and image settings the records were built with.
type Cache struct {
	Version   int
	Lang      string
	MinLength int
	Params    string
	IDs       []string
	CreatedAt int64
	Records   []datasets.Record
}

// NewCache wraps records read from a dataset with lang, minLength, params
// and ids.
func NewCache(lang string, minLength int, params string, ids []string, records []datasets.Record) *Cache {
	return &Cache{
		Version:   CacheVersion,
		Lang:      lang,
		MinLength: minLength,
		Params:    params,
		IDs:       ids,
		CreatedAt: time.Now().Unix(),
		Records:   records,
	}
}

// Save writes c to path atomically: it encodes into a temporary file in the
// same directory then renames it.
func Save(path string, c *Cache) error {
	if path == "" {
		return fmt.Errorf("empty cache path")
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		_ = os.Remove(tmpName)
	}()

	if err := gob.NewEncoder(tmpFile).Encode(c); err != nil {
		return fmt.Errorf("encode cache to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp cache file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp cache to target: %w", err)
	}
	return nil
}

// Load reads a cache written by Save.
func Load(path string) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("empty cache path")
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache file %s: %w", path, err)
	}
	defer fh.Close()

	var c Cache
	if err := gob.NewDecoder(fh).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", path, err)
	}
	return &c, nil
}

// Validate checks that the cache was built for the same dataset.
func (c *Cache) Validate(lang string, minLength int, params string, ids []string) error {
	if c.Version != CacheVersion {
		return fmt.Errorf("cache version mismatch: cache=%d expected=%d", c.Version, CacheVersion)
	}
	if c.Lang != lang {
		return fmt.Errorf("cache lang mismatch: cache=%s expected=%s", c.Lang, lang)
	}
	if c.MinLength != minLength {
		return fmt.Errorf("cache min length mismatch: cache=%d expected=%d", c.MinLength, minLength)
	}
	if c.Params != params {
		return fmt.Errorf("cache params mismatch: cache=%q expected=%q", c.Params, params)
	}
	if !slices.Equal(c.IDs, ids) {
		return fmt.Errorf("cache ids mismatch: cache has %d ids, expected %d", len(c.IDs), len(ids))
	}
	if len(c.Records) != len(ids) {
		return fmt.Errorf("cache size mismatch: records=%d expected=%d", len(c.Records), len(ids))
	}
	return nil
}
